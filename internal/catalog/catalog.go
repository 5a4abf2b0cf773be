package catalog

import "time"

// Category groups menu items. Owned by the remote store.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Item is a dish or drink offered on the menu.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	CategoryID  string  `json:"category_id"`
}

// Snapshot is one consistent pair of categories and items. Its slices are
// never mutated after construction; a poll replaces the whole value.
type Snapshot struct {
	Categories []Category `json:"categories"`
	Items      []Item     `json:"items"`
	Version    uint64     `json:"version"`
	FetchedAt  time.Time  `json:"fetched_at"`
}

// Section is a category with the items rendered under it.
type Section struct {
	Category Category `json:"category"`
	Items    []Item   `json:"items"`
}

// Sections joins items to categories in catalog order. Items whose
// category is unknown are left out.
func (s Snapshot) Sections() []Section {
	sections := make([]Section, 0, len(s.Categories))
	index := make(map[string]int, len(s.Categories))

	for _, category := range s.Categories {
		index[category.ID] = len(sections)
		sections = append(sections, Section{Category: category, Items: []Item{}})
	}

	for _, item := range s.Items {
		pos, ok := index[item.CategoryID]
		if !ok {
			continue
		}
		sections[pos].Items = append(sections[pos].Items, item)
	}

	return sections
}

// Item looks up a menu item by id.
func (s Snapshot) Item(id string) (Item, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Empty reports whether no catalog has been fetched yet.
func (s Snapshot) Empty() bool {
	return s.Version == 0
}
