package service

import (
	"context"
	"strings"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
)

// CatalogService serves the read-only tag and ingredient reference data and
// loads it from operator-supplied files
type CatalogService struct {
	catalog repository.CatalogRepository
}

func NewCatalogService(catalog repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.catalog.ListTags(ctx)
}

func (s *CatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	return s.catalog.GetTag(ctx, id)
}

// SearchIngredients returns ingredients whose name starts with prefix, ignoring case
func (s *CatalogService) SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	return s.catalog.SearchIngredients(ctx, models.FoldName(strings.TrimSpace(prefix)))
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	return s.catalog.GetIngredient(ctx, id)
}

// LoadTags validates and inserts tags; existing slugs are skipped
func (s *CatalogService) LoadTags(ctx context.Context, tags []models.Tag) (int64, error) {
	for i := range tags {
		tags[i].Name = strings.TrimSpace(tags[i].Name)
		tags[i].Slug = strings.TrimSpace(tags[i].Slug)
		if err := models.Validate(&tags[i]); err != nil {
			return 0, validationFromValidator(err)
		}
	}
	return s.catalog.CreateTags(ctx, tags)
}

// LoadIngredients validates and inserts ingredients; existing (name, unit)
// pairs are skipped
func (s *CatalogService) LoadIngredients(ctx context.Context, ingredients []models.Ingredient) (int64, error) {
	for i := range ingredients {
		ingredients[i].Name = strings.TrimSpace(ingredients[i].Name)
		ingredients[i].MeasurementUnit = strings.TrimSpace(ingredients[i].MeasurementUnit)
		ingredients[i].NameLower = models.FoldName(ingredients[i].Name)
		if err := models.Validate(&ingredients[i]); err != nil {
			return 0, validationFromValidator(err)
		}
	}
	return s.catalog.CreateIngredients(ctx, ingredients)
}
