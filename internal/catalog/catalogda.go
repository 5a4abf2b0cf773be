package catalog

import (
	"context"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/tableside/internal/remote"
)

// categoryResource mirrors a category document returned by the store.
type categoryResource struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// itemResource mirrors an item document. The store populates the category
// reference; older documents only carry the raw id.
type itemResource struct {
	ID          string            `json:"_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       float64           `json:"price"`
	Image       string            `json:"image"`
	Category    *categoryResource `json:"category"`
	CategoryID  string            `json:"category_id"`
}

func (r itemResource) toItem() Item {
	categoryID := r.CategoryID
	if r.Category != nil && r.Category.ID != "" {
		categoryID = r.Category.ID
	}
	return Item{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Image:       r.Image,
		CategoryID:  categoryID,
	}
}

// Source fetches the full catalog halves.
type Source interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListItems(ctx context.Context) ([]Item, error)
}

// DataAccess reads the catalog from the remote store.
type DataAccess struct {
	client *aqm.ServiceClient
}

func NewDataAccess(client *aqm.ServiceClient) *DataAccess {
	return &DataAccess{client: client}
}

func (da *DataAccess) ListCategories(ctx context.Context) ([]Category, error) {
	if da == nil || da.client == nil {
		return nil, remote.ErrNotConfigured
	}

	resp, err := da.client.List(ctx, "categories")
	if err != nil {
		return nil, err
	}

	var resources []categoryResource
	if err := remote.DecodeSuccessResponse(resp, &resources); err != nil {
		return nil, err
	}

	categories := make([]Category, 0, len(resources))
	for _, res := range resources {
		categories = append(categories, Category{ID: res.ID, Name: res.Name})
	}
	return categories, nil
}

func (da *DataAccess) ListItems(ctx context.Context) ([]Item, error) {
	if da == nil || da.client == nil {
		return nil, remote.ErrNotConfigured
	}

	resp, err := da.client.List(ctx, "items")
	if err != nil {
		return nil, err
	}

	var resources []itemResource
	if err := remote.DecodeSuccessResponse(resp, &resources); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(resources))
	for _, res := range resources {
		items = append(items, res.toItem())
	}
	return items, nil
}
