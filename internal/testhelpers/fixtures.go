package testhelpers

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// CreateUser inserts a user whose email and names derive from username
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "First " + username,
		LastName:     "Last " + username,
		PasswordHash: "not-a-real-hash",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func CreateTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: "Tag " + slug, Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag %s: %v", slug, err)
	}
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return ingredient
}

// Amount pairs an ingredient with a quantity for CreateRecipe
type Amount struct {
	Ingredient *models.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe with its ingredient rows and tag links
// directly, bypassing the service layer
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tags []*models.Tag, amounts ...Amount) *models.Recipe {
	t.Helper()
	shortID := uuid.NewString()[:8]
	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "Steps for " + name,
		CookingTime: 10,
		Image:       "/media/recipes/" + name + ".png",
		ShortID:     &shortID,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Tags", "Ingredients").Create(recipe).Error; err != nil {
			return err
		}
		for _, a := range amounts {
			row := &models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: a.Ingredient.ID, Amount: a.Amount}
			if err := tx.Omit("Ingredient").Create(row).Error; err != nil {
				return err
			}
		}
		for _, tag := range tags {
			if err := tx.Exec("INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)", recipe.ID, tag.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to create recipe %s: %v", name, err)
	}
	return recipe
}

// Catalog is a small seeded set of tags and ingredients keyed by slug and name
type Catalog struct {
	Tags        map[string]*models.Tag
	Ingredients map[string]*models.Ingredient
}

// SeedCatalog inserts the breakfast and lunch tags and a few gram/millilitre ingredients
func SeedCatalog(t *testing.T, db *gorm.DB) *Catalog {
	t.Helper()
	c := &Catalog{Tags: map[string]*models.Tag{}, Ingredients: map[string]*models.Ingredient{}}
	for _, slug := range []string{"breakfast", "lunch"} {
		c.Tags[slug] = CreateTag(t, db, slug)
	}
	for name, unit := range map[string]string{"flour": "g", "sugar": "g", "milk": "ml"} {
		c.Ingredients[name] = CreateIngredient(t, db, name, unit)
	}
	return c
}
