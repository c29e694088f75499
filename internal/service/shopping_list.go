package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
)

// ShoppingListFilename is the attachment name of the downloaded list
const ShoppingListFilename = "shopping_list.txt"

type ShoppingListService struct {
	list repository.ShoppingListRepository
}

func NewShoppingListService(list repository.ShoppingListRepository) *ShoppingListService {
	return &ShoppingListService{list: list}
}

// Build totals the ingredients of every recipe in the user's cart, one item
// per (name, unit), ordered by name and then unit
func (s *ShoppingListService) Build(ctx context.Context, userID uint) ([]models.ShoppingListItem, error) {
	items, err := s.list.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	// database collations disagree, so the order is fixed here
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].MeasurementUnit < items[j].MeasurementUnit
	})
	return items, nil
}

// Render formats items as "name (unit) — total" lines. An empty list renders
// as an empty document.
func Render(items []models.ShoppingListItem) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "%s (%s) — %d\n", item.Name, item.MeasurementUnit, item.Total)
	}
	return b.String()
}
