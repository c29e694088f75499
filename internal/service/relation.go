package service

import (
	"context"
	"errors"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
)

// RecipeRelationService toggles one kind of per-user recipe mark, either
// favorites or the shopping cart
type RecipeRelationService struct {
	recipes   repository.RecipeRepository
	relations repository.RecipeRelationRepository
	duplicate string
	missing   string
}

func NewFavoriteService(recipes repository.RecipeRepository, favorites repository.RecipeRelationRepository) *RecipeRelationService {
	return &RecipeRelationService{
		recipes:   recipes,
		relations: favorites,
		duplicate: "recipe is already in favorites",
		missing:   "recipe is not in favorites",
	}
}

func NewShoppingCartService(recipes repository.RecipeRepository, cart repository.RecipeRelationRepository) *RecipeRelationService {
	return &RecipeRelationService{
		recipes:   recipes,
		relations: cart,
		duplicate: "recipe is already in the shopping cart",
		missing:   "recipe is not in the shopping cart",
	}
}

// Add marks the recipe for the user and returns it for the short representation
func (s *RecipeRelationService) Add(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	exists, err := s.relations.Exists(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &RelationError{Message: s.duplicate, Err: ErrAlreadyExists}
	}

	// the unique index still catches a concurrent add
	if err := s.relations.Add(ctx, userID, recipeID); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return nil, &RelationError{Message: s.duplicate, Err: ErrAlreadyExists}
		}
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeRelationService) Remove(ctx context.Context, userID, recipeID uint) error {
	if _, err := s.recipes.GetByID(ctx, recipeID); err != nil {
		return err
	}
	if err := s.relations.Remove(ctx, userID, recipeID); err != nil {
		if errors.Is(err, ErrNotExists) {
			return &RelationError{Message: s.missing, Err: ErrNotExists}
		}
		return err
	}
	return nil
}
