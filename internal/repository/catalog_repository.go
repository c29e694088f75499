package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

// CatalogRepository reads and bulk-loads tags and ingredients
type CatalogRepository interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	FindTags(ctx context.Context, ids []uint) ([]models.Tag, error)
	CreateTags(ctx context.Context, tags []models.Tag) (int64, error)

	// SearchIngredients matches names starting with a prefix already folded by models.FoldName
	SearchIngredients(ctx context.Context, lowerPrefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
	CountIngredients(ctx context.Context, ids []uint) (int64, error)
	CreateIngredients(ctx context.Context, ingredients []models.Ingredient) (int64, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, wrap("list tags", err)
	}
	return tags, nil
}

func (r *catalogRepository) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, wrap("get tag", err)
	}
	return &tag, nil
}

func (r *catalogRepository) FindTags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&tags).Error; err != nil {
		return nil, wrap("find tags", err)
	}
	return tags, nil
}

// CreateTags inserts tags, skipping any whose slug already exists
func (r *catalogRepository) CreateTags(ctx context.Context, tags []models.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&tags)
	return result.RowsAffected, wrap("create tags", result.Error)
}

func (r *catalogRepository) SearchIngredients(ctx context.Context, lowerPrefix string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	query := r.db.WithContext(ctx).Order("name").Order("id")
	if lowerPrefix != "" {
		query = query.Where(`name_lower LIKE ? ESCAPE '\'`, escapeLike(lowerPrefix)+"%")
	}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, wrap("search ingredients", err)
	}
	return ingredients, nil
}

func (r *catalogRepository) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, wrap("get ingredient", err)
	}
	return &ingredient, nil
}

func (r *catalogRepository) CountIngredients(ctx context.Context, ids []uint) (int64, error) {
	var count int64
	if len(ids) == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, wrap("count ingredients", err)
	}
	return count, nil
}

// CreateIngredients inserts ingredients, skipping (name, unit) pairs already present
func (r *catalogRepository) CreateIngredients(ctx context.Context, ingredients []models.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&ingredients, 500)
	return result.RowsAffected, wrap("create ingredients", result.Error)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
