package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

// maxShortIDAttempts bounds how many fresh candidates are drawn when a
// generated short id is already taken
const maxShortIDAttempts = 8

// ErrShortIDExhausted is returned when no free short id was found
var ErrShortIDExhausted = errors.New("could not allocate a unique short id")

// RecipeFilter narrows a recipe listing. Zero values disable a condition.
type RecipeFilter struct {
	AuthorID    uint
	TagSlugs    []string
	FavoritedBy uint
	InCartOf    uint
	Offset      int
	Limit       int
}

type RecipeRepository interface {
	// Create inserts the recipe with its ingredient rows and tag links, then
	// assigns a short id, all in one transaction
	Create(ctx context.Context, recipe *models.Recipe, newShortID func() string) error
	// Update rewrites the ingredient rows and tag links and the recipe's own
	// fields in one transaction
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
	GetIDByShortID(ctx context.Context, shortID string) (uint, error)
	AssignShortID(ctx context.Context, id uint, newShortID func() string) (string, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe, newShortID func() string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		if err := writeIngredients(tx, recipe.ID, recipe.Ingredients); err != nil {
			return err
		}
		if err := writeTags(tx, recipe.ID, recipe.Tags); err != nil {
			return err
		}
		shortID, err := assignShortID(tx, recipe.ID, newShortID)
		if err != nil {
			return err
		}
		recipe.ShortID = &shortID
		return nil
	})
	return wrap("create recipe", err)
}

// Update rewrites the recipe's fields and replaces its ingredient and tag
// sets. The recipe row goes first so a concurrently deleted recipe reports
// ErrNotFound instead of failing an association foreign key.
func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Recipe{ID: recipe.ID}).Updates(map[string]interface{}{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
			"image":        recipe.Image,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := writeIngredients(tx, recipe.ID, recipe.Ingredients); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipe.ID).Error; err != nil {
			return err
		}
		return writeTags(tx, recipe.ID, recipe.Tags)
	})
	return wrap("update recipe", err)
}

func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.RecipeIngredient{}, &models.Favorite{}, &models.ShoppingCartEntry{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Recipe{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return wrap("delete recipe", err)
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.withDetails(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, wrap("get recipe", err)
	}
	return &recipe, nil
}

func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Recipe{})

	if filter.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (?)", r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs))
	}
	if filter.FavoritedBy != 0 {
		query = query.Where("recipes.id IN (?)", r.db.Model(&models.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", filter.FavoritedBy))
	}
	if filter.InCartOf != 0 {
		query = query.Where("recipes.id IN (?)", r.db.Model(&models.ShoppingCartEntry{}).
			Select("recipe_id").
			Where("user_id = ?", filter.InCartOf))
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrap("count recipes", err)
	}

	var recipes []models.Recipe
	if err := r.withDetails(query).
		Order("recipes.created_at DESC").
		Order("recipes.id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, wrap("list recipes", err)
	}
	return recipes, total, nil
}

func (r *recipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, wrap("list author recipes", err)
	}
	return recipes, nil
}

func (r *recipeRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, wrap("count author recipes", err)
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

func (r *recipeRepository) GetIDByShortID(ctx context.Context, shortID string) (uint, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).Select("id").Where("short_id = ?", shortID).First(&recipe).Error; err != nil {
		return 0, wrap("resolve short id", err)
	}
	return recipe.ID, nil
}

// AssignShortID gives a recipe created without one its short id. A recipe
// that already has a short id keeps it.
func (r *recipeRepository) AssignShortID(ctx context.Context, id uint, newShortID func() string) (string, error) {
	var shortID string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		shortID, err = assignShortID(tx, id, newShortID)
		return err
	})
	return shortID, wrap("assign short id", err)
}

func (r *recipeRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

func writeIngredients(tx *gorm.DB, recipeID uint, items []models.RecipeIngredient) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]models.RecipeIngredient, len(items))
	for i, item := range items {
		rows[i] = models.RecipeIngredient{RecipeID: recipeID, IngredientID: item.IngredientID, Amount: item.Amount}
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

func writeTags(tx *gorm.DB, recipeID uint, tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, len(tags))
	for i, tag := range tags {
		rows[i] = map[string]interface{}{"recipe_id": recipeID, "tag_id": tag.ID}
	}
	return tx.Table("recipe_tags").Create(rows).Error
}

func assignShortID(tx *gorm.DB, recipeID uint, newShortID func() string) (string, error) {
	var current models.Recipe
	if err := tx.Select("id", "short_id").First(&current, recipeID).Error; err != nil {
		return "", err
	}
	if current.ShortID != nil && *current.ShortID != "" {
		return *current.ShortID, nil
	}

	for attempt := 0; attempt < maxShortIDAttempts; attempt++ {
		candidate := newShortID()

		var taken int64
		if err := tx.Model(&models.Recipe{}).Where("short_id = ?", candidate).Count(&taken).Error; err != nil {
			return "", err
		}
		if taken > 0 {
			continue
		}

		// the unique index still guards against a concurrent writer picking the same id
		if err := tx.Model(&models.Recipe{}).
			Where("id = ? AND short_id IS NULL", recipeID).
			Update("short_id", candidate).Error; err != nil {
			return "", err
		}
		return candidate, nil
	}
	return "", ErrShortIDExhausted
}
