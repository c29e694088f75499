package service_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

type recipeFixture struct {
	env       *testEnv
	author    *models.User
	breakfast *models.Tag
	lunch     *models.Tag
	flour     *models.Ingredient
	sugar     *models.Ingredient
}

func setupRecipeFixture(t *testing.T) *recipeFixture {
	env := setupEnv(t)
	return &recipeFixture{
		env:       env,
		author:    testhelpers.CreateUser(t, env.db, "author"),
		breakfast: testhelpers.CreateTag(t, env.db, "breakfast"),
		lunch:     testhelpers.CreateTag(t, env.db, "lunch"),
		flour:     testhelpers.CreateIngredient(t, env.db, "flour", "g"),
		sugar:     testhelpers.CreateIngredient(t, env.db, "sugar", "g"),
	}
}

func (f *recipeFixture) input() service.RecipeInput {
	return service.RecipeInput{
		Name:        strPtr("Pancakes"),
		Text:        strPtr("Mix and fry"),
		CookingTime: intPtr(15),
		Image:       pngDataURI,
		Tags:        []uint{f.breakfast.ID},
		Ingredients: []service.IngredientAmount{
			{IngredientID: f.flour.ID, Amount: 200},
			{IngredientID: f.sugar.ID, Amount: 30},
		},
	}
}

func (f *recipeFixture) mediaFile(t *testing.T, url string) string {
	t.Helper()
	return filepath.Join(f.env.mediaRoot, filepath.FromSlash(strings.TrimPrefix(url, "/media/")))
}

func TestCreateRecipe(t *testing.T) {
	f := setupRecipeFixture(t)

	view, err := f.env.recipes.Create(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	recipe := view.Recipe
	assert.Equal(t, "Pancakes", recipe.Name)
	assert.Equal(t, f.author.ID, recipe.Author.ID)
	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, "breakfast", recipe.Tags[0].Slug)
	require.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, "flour", recipe.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 200, recipe.Ingredients[0].Amount)
	require.NotNil(t, recipe.ShortID)
	assert.Len(t, *recipe.ShortID, 6)
	assert.False(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)

	assert.True(t, strings.HasPrefix(recipe.Image, "/media/recipes/"))
	assert.FileExists(t, f.mediaFile(t, recipe.Image))
}

func TestCreateRecipeValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*recipeFixture, *service.RecipeInput)
		field  string
	}{
		{"empty tags", func(f *recipeFixture, in *service.RecipeInput) { in.Tags = nil }, "tags"},
		{"duplicate tags", func(f *recipeFixture, in *service.RecipeInput) {
			in.Tags = []uint{f.breakfast.ID, f.breakfast.ID}
		}, "tags"},
		{"unknown tag", func(f *recipeFixture, in *service.RecipeInput) { in.Tags = []uint{9999} }, "tags"},
		{"empty ingredients", func(f *recipeFixture, in *service.RecipeInput) { in.Ingredients = nil }, "ingredients"},
		{"duplicate ingredients", func(f *recipeFixture, in *service.RecipeInput) {
			in.Ingredients = []service.IngredientAmount{
				{IngredientID: f.flour.ID, Amount: 1},
				{IngredientID: f.flour.ID, Amount: 2},
			}
		}, "ingredients"},
		{"zero amount", func(f *recipeFixture, in *service.RecipeInput) { in.Ingredients[0].Amount = 0 }, "ingredients"},
		{"unknown ingredient", func(f *recipeFixture, in *service.RecipeInput) {
			in.Ingredients = []service.IngredientAmount{{IngredientID: 9999, Amount: 1}}
		}, "ingredients"},
		{"missing image", func(f *recipeFixture, in *service.RecipeInput) { in.Image = "" }, "image"},
		{"invalid image", func(f *recipeFixture, in *service.RecipeInput) { in.Image = "data:image/png;base64,bm90IGFuIGltYWdl" }, "image"},
		{"zero cooking time", func(f *recipeFixture, in *service.RecipeInput) { in.CookingTime = intPtr(0) }, "cooking_time"},
		{"missing name", func(f *recipeFixture, in *service.RecipeInput) { in.Name = nil }, "name"},
		{"long name", func(f *recipeFixture, in *service.RecipeInput) { in.Name = strPtr(strings.Repeat("a", 257)) }, "name"},
		{"blank text", func(f *recipeFixture, in *service.RecipeInput) { in.Text = strPtr("  ") }, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupRecipeFixture(t)
			in := f.input()
			tt.modify(f, &in)

			_, err := f.env.recipes.Create(ctx, f.author.ID, in)
			var verr *service.ValidationError
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			assert.Equal(t, tt.field, verr.Field)

			var count int64
			require.NoError(t, f.env.db.Model(&models.Recipe{}).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestUpdateRecipe(t *testing.T) {
	f := setupRecipeFixture(t)
	created, err := f.env.recipes.Create(ctx, f.author.ID, f.input())
	require.NoError(t, err)
	oldImage := created.Recipe.Image

	updated, err := f.env.recipes.Update(ctx, f.author.ID, created.Recipe.ID, service.RecipeInput{
		Name:        strPtr("Crepes"),
		Image:       pngDataURI,
		Tags:        []uint{f.lunch.ID},
		Ingredients: []service.IngredientAmount{{IngredientID: f.sugar.ID, Amount: 5}},
	})
	require.NoError(t, err)

	recipe := updated.Recipe
	assert.Equal(t, "Crepes", recipe.Name)
	assert.Equal(t, "Mix and fry", recipe.Text)
	assert.Equal(t, 15, recipe.CookingTime)
	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, "lunch", recipe.Tags[0].Slug)
	require.Len(t, recipe.Ingredients, 1)
	assert.Equal(t, "sugar", recipe.Ingredients[0].Ingredient.Name)
	assert.Equal(t, *created.Recipe.ShortID, *recipe.ShortID)

	assert.NotEqual(t, oldImage, recipe.Image)
	_, statErr := os.Stat(f.mediaFile(t, oldImage))
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpdateRecipeRequiresTagsAndIngredients(t *testing.T) {
	f := setupRecipeFixture(t)
	created, err := f.env.recipes.Create(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	_, err = f.env.recipes.Update(ctx, f.author.ID, created.Recipe.ID, service.RecipeInput{
		Name:        strPtr("Crepes"),
		Ingredients: []service.IngredientAmount{{IngredientID: f.sugar.ID, Amount: 5}},
	})
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "tags", verr.Field)

	got, err := f.env.recipes.Get(ctx, 0, created.Recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", got.Recipe.Name)
	assert.Len(t, got.Recipe.Ingredients, 2)
}

func TestOnlyAuthorMayChangeRecipe(t *testing.T) {
	f := setupRecipeFixture(t)
	stranger := testhelpers.CreateUser(t, f.env.db, "stranger")
	created, err := f.env.recipes.Create(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	_, err = f.env.recipes.Update(ctx, stranger.ID, created.Recipe.ID, f.input())
	assert.ErrorIs(t, err, service.ErrForbidden)

	err = f.env.recipes.Delete(ctx, stranger.ID, created.Recipe.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.env.recipes.Update(ctx, f.author.ID, 9999, f.input())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteRecipe(t *testing.T) {
	f := setupRecipeFixture(t)
	reader := testhelpers.CreateUser(t, f.env.db, "reader")
	created, err := f.env.recipes.Create(ctx, f.author.ID, f.input())
	require.NoError(t, err)
	id := created.Recipe.ID

	_, err = f.env.favorites.Add(ctx, reader.ID, id)
	require.NoError(t, err)
	_, err = f.env.cart.Add(ctx, reader.ID, id)
	require.NoError(t, err)

	require.NoError(t, f.env.recipes.Delete(ctx, f.author.ID, id))

	_, err = f.env.recipes.Get(ctx, 0, id)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.env.shortLinks.Resolve(ctx, *created.Recipe.ShortID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.NoFileExists(t, f.mediaFile(t, created.Recipe.Image))

	items, err := f.env.shoppingList.Build(ctx, reader.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRecipeViewFlags(t *testing.T) {
	f := setupRecipeFixture(t)
	reader := testhelpers.CreateUser(t, f.env.db, "reader")
	created, err := f.env.recipes.Create(ctx, f.author.ID, f.input())
	require.NoError(t, err)
	id := created.Recipe.ID

	_, err = f.env.favorites.Add(ctx, reader.ID, id)
	require.NoError(t, err)
	_, err = f.env.subscriptions.Subscribe(ctx, reader.ID, f.author.ID, 0)
	require.NoError(t, err)

	view, err := f.env.recipes.Get(ctx, reader.ID, id)
	require.NoError(t, err)
	assert.True(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
	assert.True(t, view.AuthorSubscribed)

	anonymous, err := f.env.recipes.Get(ctx, 0, id)
	require.NoError(t, err)
	assert.False(t, anonymous.IsFavorited)
	assert.False(t, anonymous.AuthorSubscribed)
}

func TestListRecipes(t *testing.T) {
	f := setupRecipeFixture(t)
	reader := testhelpers.CreateUser(t, f.env.db, "reader")
	other := testhelpers.CreateUser(t, f.env.db, "other")

	first := testhelpers.CreateRecipe(t, f.env.db, f.author, "first", []*models.Tag{f.breakfast})
	second := testhelpers.CreateRecipe(t, f.env.db, other, "second", []*models.Tag{f.lunch})
	third := testhelpers.CreateRecipe(t, f.env.db, f.author, "third", []*models.Tag{f.breakfast, f.lunch})

	_, err := f.env.favorites.Add(ctx, reader.ID, second.ID)
	require.NoError(t, err)

	ids := func(views []service.RecipeView) []uint {
		out := make([]uint, len(views))
		for i, v := range views {
			out[i] = v.Recipe.ID
		}
		return out
	}

	views, total, err := f.env.recipes.List(ctx, 0, service.RecipeQuery{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []uint{third.ID, second.ID, first.ID}, ids(views))

	views, total, err = f.env.recipes.List(ctx, 0, service.RecipeQuery{AuthorID: f.author.ID, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, []uint{third.ID, first.ID}, ids(views))

	views, _, err = f.env.recipes.List(ctx, 0, service.RecipeQuery{TagSlugs: []string{"lunch"}, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []uint{third.ID, second.ID}, ids(views))

	views, _, err = f.env.recipes.List(ctx, reader.ID, service.RecipeQuery{FavoritedOnly: true, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []uint{second.ID}, ids(views))
	assert.True(t, views[0].IsFavorited)

	// anonymous viewers cannot filter by favorites
	views, _, err = f.env.recipes.List(ctx, 0, service.RecipeQuery{FavoritedOnly: true, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, views, 3)

	views, total, err = f.env.recipes.List(ctx, 0, service.RecipeQuery{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []uint{first.ID}, ids(views))
}
