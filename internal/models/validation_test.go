package models

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagSlugValidation(t *testing.T) {
	tests := []struct {
		name  string
		slug  string
		valid bool
	}{
		{"letters and dashes", "breakfast-time", true},
		{"underscore and digits", "lunch_2", true},
		{"space", "late dinner", false},
		{"cyrillic", "завтрак", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&Tag{Name: "Tag", Slug: tt.slug})
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, "slug", verrs[0].Field())
		})
	}
}

func TestUserValidation(t *testing.T) {
	user := User{Email: "cook@example.com", Username: "cook.42", FirstName: "Ada", LastName: "Cook"}
	assert.NoError(t, Validate(&user))

	user.Username = "me"
	assert.Error(t, Validate(&user))

	user.Username = "bad name!"
	assert.Error(t, Validate(&user))

	user.Username = "cook"
	user.Email = "not-an-email"
	assert.Error(t, Validate(&user))
}

func TestIngredientValidation(t *testing.T) {
	assert.NoError(t, Validate(&Ingredient{Name: "flour", MeasurementUnit: "g"}))
	assert.Error(t, Validate(&Ingredient{Name: "flour"}))
}
