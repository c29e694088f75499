package service

import (
	"context"
	"errors"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
)

// AuthorView is a followed author with a preview of their recipes
type AuthorView struct {
	User         models.User
	IsSubscribed bool
	RecipesCount int64
	Recipes      []models.Recipe
}

type SubscriptionService struct {
	users         repository.UserRepository
	recipes       repository.RecipeRepository
	subscriptions repository.SubscriptionRepository
}

func NewSubscriptionService(users repository.UserRepository, recipes repository.RecipeRepository, subscriptions repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{users: users, recipes: recipes, subscriptions: subscriptions}
}

// Subscribe makes userID follow authorID. recipesLimit caps the recipe
// preview when positive.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*AuthorView, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if userID == authorID {
		return nil, newValidationError("author", "you cannot subscribe to yourself")
	}

	exists, err := s.subscriptions.Exists(ctx, userID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &RelationError{Message: "you are already subscribed to this author", Err: ErrAlreadyExists}
	}
	if err := s.subscriptions.Add(ctx, userID, authorID); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return nil, &RelationError{Message: "you are already subscribed to this author", Err: ErrAlreadyExists}
		}
		return nil, err
	}

	views, err := s.authorViews(ctx, []models.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return err
	}
	if err := s.subscriptions.Remove(ctx, userID, authorID); err != nil {
		if errors.Is(err, ErrNotExists) {
			return &RelationError{Message: "you are not subscribed to this author", Err: ErrNotExists}
		}
		return err
	}
	return nil
}

// List pages through the authors userID follows
func (s *SubscriptionService) List(ctx context.Context, userID uint, offset, limit, recipesLimit int) ([]AuthorView, int64, error) {
	authors, total, err := s.subscriptions.ListAuthors(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.authorViews(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// authorViews builds views for authors the caller is known to follow
func (s *SubscriptionService) authorViews(ctx context.Context, authors []models.User, recipesLimit int) ([]AuthorView, error) {
	ids := make([]uint, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]AuthorView, len(authors))
	for i, a := range authors {
		recipes, err := s.recipes.ListByAuthor(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		views[i] = AuthorView{
			User:         a,
			IsSubscribed: true,
			RecipesCount: counts[a.ID],
			Recipes:      recipes,
		}
	}
	return views, nil
}
