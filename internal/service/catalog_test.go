package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
)

func TestLoadAndSearchIngredients(t *testing.T) {
	env := setupEnv(t)

	inserted, err := env.catalog.LoadIngredients(ctx, []models.Ingredient{
		{Name: "Milk", MeasurementUnit: "ml"},
		{Name: "millet", MeasurementUnit: "g"},
		{Name: "salt", MeasurementUnit: "pinch"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, inserted)

	// reloading the same file is a no-op
	inserted, err = env.catalog.LoadIngredients(ctx, []models.Ingredient{{Name: "salt", MeasurementUnit: "pinch"}})
	require.NoError(t, err)
	assert.Zero(t, inserted)

	found, err := env.catalog.SearchIngredients(ctx, "MIL")
	require.NoError(t, err)
	names := make([]string, len(found))
	for i, ing := range found {
		names[i] = ing.Name
	}
	assert.ElementsMatch(t, []string{"Milk", "millet"}, names)

	found, err = env.catalog.SearchIngredients(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestLoadTagsValidatesSlugs(t *testing.T) {
	env := setupEnv(t)

	_, err := env.catalog.LoadTags(ctx, []models.Tag{{Name: "Breakfast", Slug: "not a slug"}})
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "slug", verr.Field)

	inserted, err := env.catalog.LoadTags(ctx, []models.Tag{{Name: "Breakfast", Slug: "breakfast"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, inserted)

	tags, err := env.catalog.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	tag, err := env.catalog.GetTag(ctx, tags[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "breakfast", tag.Slug)

	_, err = env.catalog.GetTag(ctx, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSearchIngredientsFoldsNonASCII(t *testing.T) {
	env := setupEnv(t)
	_, err := env.catalog.LoadIngredients(ctx, []models.Ingredient{
		{Name: "Яблоко", MeasurementUnit: "г"},
		{Name: "Éclair", MeasurementUnit: "pcs"},
		{Name: "Ячмень", MeasurementUnit: "г"},
	})
	require.NoError(t, err)

	tests := []struct {
		prefix string
		want   string
	}{
		{"Ябл", "Яблоко"},
		{"ябл", "Яблоко"},
		{"ЯБЛ", "Яблоко"},
		{"Écl", "Éclair"},
		{"écl", "Éclair"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			found, err := env.catalog.SearchIngredients(ctx, tt.prefix)
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, tt.want, found[0].Name)
		})
	}

	found, err := env.catalog.SearchIngredients(ctx, "я")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}
