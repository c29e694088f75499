package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// RecipeRelationRepository stores one kind of (user, recipe) pair: favorites
// or shopping cart entries
type RecipeRelationRepository interface {
	Add(ctx context.Context, userID, recipeID uint) error
	Remove(ctx context.Context, userID, recipeID uint) error
	Exists(ctx context.Context, userID, recipeID uint) (bool, error)
	// Marked reports which of recipeIDs the user has a row for
	Marked(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error)
}

type recipeRelationRepository struct {
	db     *gorm.DB
	name   string
	newRow func(userID, recipeID uint) interface{}
}

func NewFavoriteRepository(db *gorm.DB) RecipeRelationRepository {
	return &recipeRelationRepository{
		db:   db,
		name: "favorite",
		newRow: func(userID, recipeID uint) interface{} {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}
}

func NewShoppingCartRepository(db *gorm.DB) RecipeRelationRepository {
	return &recipeRelationRepository{
		db:   db,
		name: "shopping cart entry",
		newRow: func(userID, recipeID uint) interface{} {
			return &models.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}
		},
	}
}

func (r *recipeRelationRepository) Add(ctx context.Context, userID, recipeID uint) error {
	return wrap("add "+r.name, r.db.WithContext(ctx).Create(r.newRow(userID, recipeID)).Error)
}

func (r *recipeRelationRepository) Remove(ctx context.Context, userID, recipeID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(r.newRow(0, 0))
	if result.Error != nil {
		return wrap("remove "+r.name, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrap("remove "+r.name, ErrNotExists)
	}
	return nil
}

func (r *recipeRelationRepository) Exists(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(r.newRow(0, 0)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, wrap("check "+r.name, err)
	}
	return count > 0, nil
}

func (r *recipeRelationRepository) Marked(ctx context.Context, userID uint, recipeIDs []uint) (map[uint]bool, error) {
	marked := make(map[uint]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return marked, nil
	}

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(r.newRow(0, 0)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, wrap("list "+r.name+" marks", err)
	}
	for _, id := range ids {
		marked[id] = true
	}
	return marked, nil
}

// ShoppingListRepository aggregates a user's cart into ingredient totals
type ShoppingListRepository interface {
	Aggregate(ctx context.Context, userID uint) ([]models.ShoppingListItem, error)
}

type shoppingListRepository struct {
	db *gorm.DB
}

func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db: db}
}

// Aggregate sums amounts over every recipe ingredient reachable from the
// user's cart, one row per (name, unit)
func (r *shoppingListRepository) Aggregate(ctx context.Context, userID uint) ([]models.ShoppingListItem, error) {
	var items []models.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Table("shopping_cart_entries AS c").
		Select("i.name AS name, i.measurement_unit AS measurement_unit, SUM(ri.amount) AS total").
		Joins("JOIN recipe_ingredients ri ON ri.recipe_id = c.recipe_id").
		Joins("JOIN ingredients i ON i.id = ri.ingredient_id").
		Where("c.user_id = ?", userID).
		Group("i.name, i.measurement_unit").
		Order("i.name, i.measurement_unit").
		Scan(&items).Error; err != nil {
		return nil, wrap("aggregate shopping list", err)
	}
	return items, nil
}
