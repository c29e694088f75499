package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func sequence(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func TestRecipeRelationUniqueBackstop(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	author := testhelpers.CreateUser(t, db, "author")
	reader := testhelpers.CreateUser(t, db, "reader")
	recipe := testhelpers.CreateRecipe(t, db, author, "pancakes", nil)

	for name, repo := range map[string]repository.RecipeRelationRepository{
		"favorites": repository.NewFavoriteRepository(db),
		"cart":      repository.NewShoppingCartRepository(db),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.Add(ctx, reader.ID, recipe.ID))

			// a second insert skipping the existence check hits the unique index
			err := repo.Add(ctx, reader.ID, recipe.ID)
			assert.ErrorIs(t, err, repository.ErrAlreadyExists)

			exists, err := repo.Exists(ctx, reader.ID, recipe.ID)
			require.NoError(t, err)
			assert.True(t, exists)

			marked, err := repo.Marked(ctx, reader.ID, []uint{recipe.ID, recipe.ID + 100})
			require.NoError(t, err)
			assert.Equal(t, map[uint]bool{recipe.ID: true}, marked)

			require.NoError(t, repo.Remove(ctx, reader.ID, recipe.ID))
			assert.ErrorIs(t, repo.Remove(ctx, reader.ID, recipe.ID), repository.ErrNotExists)
		})
	}
}

func TestSubscriptionRepository(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	repo := repository.NewSubscriptionRepository(db)
	follower := testhelpers.CreateUser(t, db, "follower")
	zed := testhelpers.CreateUser(t, db, "zed")
	amy := testhelpers.CreateUser(t, db, "amy")

	require.NoError(t, repo.Add(ctx, follower.ID, zed.ID))
	require.NoError(t, repo.Add(ctx, follower.ID, amy.ID))
	assert.ErrorIs(t, repo.Add(ctx, follower.ID, amy.ID), repository.ErrAlreadyExists)

	authors, total, err := repo.ListAuthors(ctx, follower.ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, authors, 2)
	assert.Equal(t, "amy", authors[0].Username)
	assert.Equal(t, "zed", authors[1].Username)

	following, err := repo.Following(ctx, follower.ID, []uint{zed.ID, amy.ID, follower.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{zed.ID: true, amy.ID: true}, following)

	require.NoError(t, repo.Remove(ctx, follower.ID, zed.ID))
	assert.ErrorIs(t, repo.Remove(ctx, follower.ID, zed.ID), repository.ErrNotExists)
}

func TestShoppingListAggregate(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	author := testhelpers.CreateUser(t, db, "author")
	buyer := testhelpers.CreateUser(t, db, "buyer")

	flour := testhelpers.CreateIngredient(t, db, "flour", "g")
	sugar := testhelpers.CreateIngredient(t, db, "sugar", "g")
	milk := testhelpers.CreateIngredient(t, db, "milk", "ml")

	cake := testhelpers.CreateRecipe(t, db, author, "cake", nil,
		testhelpers.Amount{Ingredient: flour, Amount: 200},
		testhelpers.Amount{Ingredient: sugar, Amount: 50})
	crepes := testhelpers.CreateRecipe(t, db, author, "crepes", nil,
		testhelpers.Amount{Ingredient: flour, Amount: 120},
		testhelpers.Amount{Ingredient: milk, Amount: 300})
	testhelpers.CreateRecipe(t, db, author, "not in cart", nil,
		testhelpers.Amount{Ingredient: flour, Amount: 1000})

	cart := repository.NewShoppingCartRepository(db)
	require.NoError(t, cart.Add(ctx, buyer.ID, cake.ID))
	require.NoError(t, cart.Add(ctx, buyer.ID, crepes.ID))

	items, err := repository.NewShoppingListRepository(db).Aggregate(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.ShoppingListItem{
		{Name: "flour", MeasurementUnit: "g", Total: 320},
		{Name: "milk", MeasurementUnit: "ml", Total: 300},
		{Name: "sugar", MeasurementUnit: "g", Total: 50},
	}, items)

	empty, err := repository.NewShoppingListRepository(db).Aggregate(ctx, author.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRecipeCreateAssignsShortID(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	repo := repository.NewRecipeRepository(db)
	author := testhelpers.CreateUser(t, db, "author")
	tag := testhelpers.CreateTag(t, db, "dinner")
	flour := testhelpers.CreateIngredient(t, db, "flour", "g")

	first := &models.Recipe{
		AuthorID: author.ID, Name: "bread", Text: "bake", CookingTime: 60, Image: "/media/bread.png",
		Tags:        []models.Tag{*tag},
		Ingredients: []models.RecipeIngredient{{IngredientID: flour.ID, Amount: 500}},
	}
	require.NoError(t, repo.Create(ctx, first, sequence("AAAAAA")))
	require.NotNil(t, first.ShortID)
	assert.Equal(t, "AAAAAA", *first.ShortID)

	// the first candidate collides and is skipped
	second := &models.Recipe{
		AuthorID: author.ID, Name: "rolls", Text: "bake", CookingTime: 30, Image: "/media/rolls.png",
		Tags:        []models.Tag{*tag},
		Ingredients: []models.RecipeIngredient{{IngredientID: flour.ID, Amount: 250}},
	}
	require.NoError(t, repo.Create(ctx, second, sequence("AAAAAA", "BBBBBB")))
	assert.Equal(t, "BBBBBB", *second.ShortID)

	id, err := repo.GetIDByShortID(ctx, "BBBBBB")
	require.NoError(t, err)
	assert.Equal(t, second.ID, id)

	_, err = repo.GetIDByShortID(ctx, "ZZZZZZ")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// an assigned short id is never replaced
	shortID, err := repo.AssignShortID(ctx, first.ID, sequence("CCCCCC"))
	require.NoError(t, err)
	assert.Equal(t, "AAAAAA", shortID)

	loaded, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "author", loaded.Author.Username)
	require.Len(t, loaded.Tags, 1)
	assert.Equal(t, "dinner", loaded.Tags[0].Slug)
	require.Len(t, loaded.Ingredients, 1)
	assert.Equal(t, "flour", loaded.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 500, loaded.Ingredients[0].Amount)
}

func TestRecipeCreateGivesUpWhenShortIDsExhausted(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	repo := repository.NewRecipeRepository(db)
	author := testhelpers.CreateUser(t, db, "author")
	existing := testhelpers.CreateRecipe(t, db, author, "existing", nil)

	recipe := &models.Recipe{AuthorID: author.ID, Name: "new", Text: "t", CookingTime: 5, Image: "/i.png"}
	err := repo.Create(ctx, recipe, func() string { return *existing.ShortID })
	assert.ErrorIs(t, err, repository.ErrShortIDExhausted)

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "the failed create must be rolled back")
}

func TestRecipeUpdateIsAtomic(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	repo := repository.NewRecipeRepository(db)
	author := testhelpers.CreateUser(t, db, "author")
	breakfast := testhelpers.CreateTag(t, db, "breakfast")
	lunch := testhelpers.CreateTag(t, db, "lunch")
	eggs := testhelpers.CreateIngredient(t, db, "eggs", "pcs")
	bacon := testhelpers.CreateIngredient(t, db, "bacon", "g")
	recipe := testhelpers.CreateRecipe(t, db, author, "omelette", []*models.Tag{breakfast},
		testhelpers.Amount{Ingredient: eggs, Amount: 3})

	boom := errors.New("disk full")
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_recipe_ingredients", func(tx *gorm.DB) {
		if tx.Statement.Table == "recipe_ingredients" {
			_ = tx.AddError(boom)
		}
	}))

	update := &models.Recipe{
		ID: recipe.ID, Name: "bacon omelette", Text: "fry", CookingTime: 15, Image: recipe.Image,
		Tags:        []models.Tag{*lunch},
		Ingredients: []models.RecipeIngredient{{IngredientID: bacon.ID, Amount: 100}},
	}
	err := repo.Update(ctx, update)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	require.NoError(t, db.Callback().Create().Remove("test:fail_recipe_ingredients"))

	loaded, err := repo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "omelette", loaded.Name)
	require.Len(t, loaded.Tags, 1)
	assert.Equal(t, breakfast.ID, loaded.Tags[0].ID)
	require.Len(t, loaded.Ingredients, 1)
	assert.Equal(t, eggs.ID, loaded.Ingredients[0].IngredientID)
	assert.Equal(t, 3, loaded.Ingredients[0].Amount)

	// without the injected failure the same update goes through
	require.NoError(t, repo.Update(ctx, update))
	loaded, err = repo.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "bacon omelette", loaded.Name)
	require.Len(t, loaded.Tags, 1)
	assert.Equal(t, lunch.ID, loaded.Tags[0].ID)
	require.Len(t, loaded.Ingredients, 1)
	assert.Equal(t, bacon.ID, loaded.Ingredients[0].IngredientID)
}

func TestRecipeUpdateOfDeletedRecipeIsNotFound(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	repo := repository.NewRecipeRepository(db)
	author := testhelpers.CreateUser(t, db, "author")
	breakfast := testhelpers.CreateTag(t, db, "breakfast")
	eggs := testhelpers.CreateIngredient(t, db, "eggs", "pcs")
	recipe := testhelpers.CreateRecipe(t, db, author, "omelette", []*models.Tag{breakfast},
		testhelpers.Amount{Ingredient: eggs, Amount: 3})
	require.NoError(t, repo.Delete(ctx, recipe.ID))

	err := repo.Update(ctx, &models.Recipe{
		ID: recipe.ID, Name: "omelette", Text: "fry", CookingTime: 10, Image: recipe.Image,
		Tags:        []models.Tag{*breakfast},
		Ingredients: []models.RecipeIngredient{{IngredientID: eggs.ID, Amount: 2}},
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	var rows int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestRecipeDeleteRemovesDependents(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	repo := repository.NewRecipeRepository(db)
	author := testhelpers.CreateUser(t, db, "author")
	reader := testhelpers.CreateUser(t, db, "reader")
	tag := testhelpers.CreateTag(t, db, "soup")
	salt := testhelpers.CreateIngredient(t, db, "salt", "g")
	recipe := testhelpers.CreateRecipe(t, db, author, "broth", []*models.Tag{tag},
		testhelpers.Amount{Ingredient: salt, Amount: 5})

	require.NoError(t, repository.NewFavoriteRepository(db).Add(ctx, reader.ID, recipe.ID))
	require.NoError(t, repository.NewShoppingCartRepository(db).Add(ctx, reader.ID, recipe.ID))

	require.NoError(t, repo.Delete(ctx, recipe.ID))
	assert.ErrorIs(t, repo.Delete(ctx, recipe.ID), repository.ErrNotFound)

	for _, table := range []string{"recipe_ingredients", "recipe_tags", "favorites", "shopping_cart_entries", "recipes"} {
		var count int64
		require.NoError(t, db.Table(table).Count(&count).Error)
		assert.Zero(t, count, table)
	}

	_, err := repo.GetIDByShortID(ctx, *recipe.ShortID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRecipeListFilters(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	repo := repository.NewRecipeRepository(db)
	alice := testhelpers.CreateUser(t, db, "alice")
	bob := testhelpers.CreateUser(t, db, "bob")
	breakfast := testhelpers.CreateTag(t, db, "breakfast")
	dinner := testhelpers.CreateTag(t, db, "dinner")
	dessert := testhelpers.CreateTag(t, db, "dessert")

	porridge := testhelpers.CreateRecipe(t, db, alice, "porridge", []*models.Tag{breakfast})
	steak := testhelpers.CreateRecipe(t, db, bob, "steak", []*models.Tag{dinner})
	pie := testhelpers.CreateRecipe(t, db, bob, "pie", []*models.Tag{dinner, dessert})

	require.NoError(t, repository.NewFavoriteRepository(db).Add(ctx, alice.ID, steak.ID))
	require.NoError(t, repository.NewShoppingCartRepository(db).Add(ctx, alice.ID, pie.ID))

	ids := func(recipes []models.Recipe) []uint {
		out := make([]uint, 0, len(recipes))
		for _, r := range recipes {
			out = append(out, r.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter repository.RecipeFilter
		want   []uint
	}{
		{"all newest first", repository.RecipeFilter{Limit: 10}, []uint{pie.ID, steak.ID, porridge.ID}},
		{"by author", repository.RecipeFilter{AuthorID: bob.ID, Limit: 10}, []uint{pie.ID, steak.ID}},
		{"any of tags", repository.RecipeFilter{TagSlugs: []string{"breakfast", "dessert"}, Limit: 10}, []uint{pie.ID, porridge.ID}},
		{"tag matched twice is listed once", repository.RecipeFilter{TagSlugs: []string{"dinner", "dessert"}, Limit: 10}, []uint{pie.ID, steak.ID}},
		{"favorited", repository.RecipeFilter{FavoritedBy: alice.ID, Limit: 10}, []uint{steak.ID}},
		{"in cart", repository.RecipeFilter{InCartOf: alice.ID, Limit: 10}, []uint{pie.ID}},
		{"paged", repository.RecipeFilter{Offset: 1, Limit: 1}, []uint{steak.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipes, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(recipes))
			if tt.filter.Offset == 0 {
				assert.EqualValues(t, len(tt.want), total)
			} else {
				assert.EqualValues(t, 3, total)
			}
		})
	}

	counts, err := repo.CountByAuthors(ctx, []uint{alice.ID, bob.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{alice.ID: 1, bob.ID: 2}, counts)

	limited, err := repo.ListByAuthor(ctx, bob.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{pie.ID}, ids(limited))
}

func TestSearchIngredients(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()
	repo := repository.NewCatalogRepository(db)

	inserted, err := repo.CreateIngredients(ctx, []models.Ingredient{
		{Name: "Sugar", MeasurementUnit: "g"},
		{Name: "sugar syrup", MeasurementUnit: "ml"},
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "100% juice", MeasurementUnit: "ml"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 4, inserted)

	// duplicates of (name, unit) are skipped
	inserted, err = repo.CreateIngredients(ctx, []models.Ingredient{{Name: "salt", MeasurementUnit: "g"}})
	require.NoError(t, err)
	assert.EqualValues(t, 0, inserted)

	found, err := repo.SearchIngredients(ctx, "su")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Sugar", found[0].Name)
	assert.Equal(t, "sugar syrup", found[1].Name)

	found, err = repo.SearchIngredients(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = repo.SearchIngredients(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, found, 1)

	all, err := repo.SearchIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
