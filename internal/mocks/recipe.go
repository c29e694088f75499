package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
)

// MockRecipeService is a mock implementation of the IRecipeService interface
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Create(ctx context.Context, authorID uint, in service.RecipeInput) (*service.RecipeView, error) {
	args := m.Called(ctx, authorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, userID, recipeID uint, in service.RecipeInput) (*service.RecipeView, error) {
	args := m.Called(ctx, userID, recipeID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, userID, recipeID uint) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

func (m *MockRecipeService) Get(ctx context.Context, viewerID, recipeID uint) (*service.RecipeView, error) {
	args := m.Called(ctx, viewerID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeView), args.Error(1)
}

func (m *MockRecipeService) List(ctx context.Context, viewerID uint, q service.RecipeQuery) ([]service.RecipeView, int64, error) {
	args := m.Called(ctx, viewerID, q)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]service.RecipeView), args.Get(1).(int64), args.Error(2)
}

// MockRecipeRelationService is a mock implementation of the IRecipeRelationService interface
type MockRecipeRelationService struct {
	mock.Mock
}

func (m *MockRecipeRelationService) Add(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	args := m.Called(ctx, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeRelationService) Remove(ctx context.Context, userID, recipeID uint) error {
	args := m.Called(ctx, userID, recipeID)
	return args.Error(0)
}

// MockShoppingListService is a mock implementation of the IShoppingListService interface
type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) Build(ctx context.Context, userID uint) ([]models.ShoppingListItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ShoppingListItem), args.Error(1)
}

// MockShortLinkService is a mock implementation of the IShortLinkService interface
type MockShortLinkService struct {
	mock.Mock
}

func (m *MockShortLinkService) Resolve(ctx context.Context, shortID string) (uint, error) {
	args := m.Called(ctx, shortID)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockShortLinkService) ShortIDFor(ctx context.Context, recipeID uint) (string, error) {
	args := m.Called(ctx, recipeID)
	return args.String(0), args.Error(1)
}
