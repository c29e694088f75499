package models

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// Tag labels recipes; the catalog is loaded by operators and read-only over the API
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:32;not null" json:"name" validate:"required,max=32"`
	Slug string `gorm:"size:32;uniqueIndex;not null" json:"slug" validate:"required,max=32,slug"`
}

type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:128;not null;uniqueIndex:idx_ingredient_name_unit" json:"name" validate:"required,max=128"`
	MeasurementUnit string `gorm:"size:64;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit" validate:"required,max=64"`
	// NameLower is Name folded by FoldName; prefix search runs against it
	NameLower string `gorm:"size:128;not null;index" json:"-"`
}

// BeforeSave keeps NameLower in step with Name
func (i *Ingredient) BeforeSave(tx *gorm.DB) error {
	i.NameLower = FoldName(i.Name)
	return nil
}

// FoldName lowercases with Unicode rules. SQL LOWER is ASCII-only on sqlite,
// so folding happens here for both stored names and search prefixes.
func FoldName(s string) string {
	// a Caser is stateful, so each call gets its own
	return cases.Lower(language.Und).String(s)
}
