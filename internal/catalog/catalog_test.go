package catalog

import "testing"

func TestSnapshotSections(t *testing.T) {
	snapshot := Snapshot{
		Categories: []Category{
			{ID: "starters", Name: "Starters"},
			{ID: "mains", Name: "Mains"},
			{ID: "drinks", Name: "Drinks"},
		},
		Items: []Item{
			{ID: "soup", Name: "Tomato Soup", CategoryID: "starters"},
			{ID: "curry", Name: "Paneer Curry", CategoryID: "mains"},
			{ID: "ghost", Name: "Retired Dish", CategoryID: "desserts"},
			{ID: "naan", Name: "Naan", CategoryID: "mains"},
		},
		Version: 1,
	}

	sections := snapshot.Sections()

	if len(sections) != 3 {
		t.Fatalf("Sections() returned %d sections, want 3", len(sections))
	}

	tests := []struct {
		name     string
		index    int
		category string
		items    []string
	}{
		{name: "starters", index: 0, category: "starters", items: []string{"soup"}},
		{name: "mainsKeepsInputOrder", index: 1, category: "mains", items: []string{"curry", "naan"}},
		{name: "emptyCategory", index: 2, category: "drinks", items: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			section := sections[tt.index]
			if section.Category.ID != tt.category {
				t.Errorf("Category.ID = %q, want %q", section.Category.ID, tt.category)
			}
			if len(section.Items) != len(tt.items) {
				t.Fatalf("len(Items) = %d, want %d", len(section.Items), len(tt.items))
			}
			for i, id := range tt.items {
				if section.Items[i].ID != id {
					t.Errorf("Items[%d].ID = %q, want %q", i, section.Items[i].ID, id)
				}
			}
		})
	}
}

func TestSnapshotSectionsDropsOrphanItems(t *testing.T) {
	snapshot := Snapshot{
		Categories: []Category{{ID: "mains", Name: "Mains"}},
		Items:      []Item{{ID: "ghost", CategoryID: "unknown"}},
	}

	for _, section := range snapshot.Sections() {
		for _, item := range section.Items {
			if item.ID == "ghost" {
				t.Error("item with unknown category should not be rendered")
			}
		}
	}
}

func TestSnapshotItem(t *testing.T) {
	snapshot := Snapshot{
		Items: []Item{{ID: "soup", Name: "Tomato Soup", Price: 120}},
	}

	item, ok := snapshot.Item("soup")
	if !ok {
		t.Fatal("Item() should find an existing item")
	}
	if item.Price != 120 {
		t.Errorf("Price = %v, want 120", item.Price)
	}

	if _, ok := snapshot.Item("missing"); ok {
		t.Error("Item() should not find a missing item")
	}
}

func TestSnapshotEmpty(t *testing.T) {
	if !(Snapshot{}).Empty() {
		t.Error("zero Snapshot should be empty")
	}
	if (Snapshot{Version: 1}).Empty() {
		t.Error("applied Snapshot should not be empty")
	}
}
