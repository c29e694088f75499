package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
)

// MockUserService is a mock implementation of the IUserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Get(ctx context.Context, viewerID, id uint) (*service.UserView, error) {
	args := m.Called(ctx, viewerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserView), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, viewerID uint, offset, limit int) ([]service.UserView, int64, error) {
	args := m.Called(ctx, viewerID, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]service.UserView), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserService) UpdateAvatar(ctx context.Context, userID uint, dataURI string) (string, error) {
	args := m.Called(ctx, userID, dataURI)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) DeleteAvatar(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockSubscriptionService is a mock implementation of the ISubscriptionService interface
type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*service.AuthorView, error) {
	args := m.Called(ctx, userID, authorID, recipesLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthorView), args.Error(1)
}

func (m *MockSubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	args := m.Called(ctx, userID, authorID)
	return args.Error(0)
}

func (m *MockSubscriptionService) List(ctx context.Context, userID uint, offset, limit, recipesLimit int) ([]service.AuthorView, int64, error) {
	args := m.Called(ctx, userID, offset, limit, recipesLimit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]service.AuthorView), args.Get(1).(int64), args.Error(2)
}

// MockCatalogService is a mock implementation of the ICatalogService interface
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockCatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockCatalogService) SearchIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockCatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ingredient), args.Error(1)
}
