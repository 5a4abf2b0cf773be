package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/appetiteclub/tableside/internal/remote"
)

func TestNewDataAccess(t *testing.T) {
	da := NewDataAccess(nil)
	if da == nil {
		t.Error("NewDataAccess() returned nil")
	}
}

func TestDataAccessNilClient(t *testing.T) {
	var nilDA *DataAccess

	tests := []struct {
		name string
		da   *DataAccess
	}{
		{name: "nilClient", da: &DataAccess{client: nil}},
		{name: "nilDA", da: nilDA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.da.ListCategories(context.Background()); !errors.Is(err, remote.ErrNotConfigured) {
				t.Errorf("ListCategories() error = %v, want ErrNotConfigured", err)
			}
			if _, err := tt.da.ListItems(context.Background()); !errors.Is(err, remote.ErrNotConfigured) {
				t.Errorf("ListItems() error = %v, want ErrNotConfigured", err)
			}
		})
	}
}

func TestItemResourceToItem(t *testing.T) {
	tests := []struct {
		name     string
		resource itemResource
		want     string
	}{
		{
			name: "populatedCategory",
			resource: itemResource{
				ID:       "curry",
				Category: &categoryResource{ID: "mains", Name: "Mains"},
			},
			want: "mains",
		},
		{
			name:     "rawCategoryID",
			resource: itemResource{ID: "curry", CategoryID: "mains"},
			want:     "mains",
		},
		{
			name: "populatedWinsOverRaw",
			resource: itemResource{
				ID:         "curry",
				Category:   &categoryResource{ID: "specials"},
				CategoryID: "mains",
			},
			want: "specials",
		},
		{
			name:     "noCategory",
			resource: itemResource{ID: "curry"},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := tt.resource.toItem()
			if item.CategoryID != tt.want {
				t.Errorf("CategoryID = %q, want %q", item.CategoryID, tt.want)
			}
			if item.ID != tt.resource.ID {
				t.Errorf("ID = %q, want %q", item.ID, tt.resource.ID)
			}
		})
	}
}
