package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
)

var loadIngredientsCmd = &cobra.Command{
	Use:   "load-ingredients",
	Short: "Load ingredients from a name,unit CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		ingredients, err := readIngredients(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		created, err := service.NewCatalogService(repository.NewCatalogRepository(db)).LoadIngredients(cmd.Context(), ingredients)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "loaded %d of %d ingredients\n", created, len(ingredients))
		return nil
	},
}

var loadTagsCmd = &cobra.Command{
	Use:   "load-tags",
	Short: "Load tags from a name,slug CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		tags, err := readTags(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		created, err := service.NewCatalogService(repository.NewCatalogRepository(db)).LoadTags(cmd.Context(), tags)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "loaded %d of %d tags\n", created, len(tags))
		return nil
	},
}

func init() {
	loadIngredientsCmd.Flags().String("file", "data/ingredients.csv", "CSV file with name,unit rows")
	loadTagsCmd.Flags().String("file", "data/tags.csv", "CSV file with name,slug rows")
}

func readIngredients(r io.Reader) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := readPairs(r, func(name, unit string) {
		ingredients = append(ingredients, models.Ingredient{Name: name, MeasurementUnit: unit})
	})
	return ingredients, err
}

func readTags(r io.Reader) ([]models.Tag, error) {
	var tags []models.Tag
	err := readPairs(r, func(name, slug string) {
		tags = append(tags, models.Tag{Name: name, Slug: slug})
	})
	return tags, err
}

// readPairs reads two-column CSV rows. Blank lines are skipped by the csv
// reader; a header row is not expected.
func readPairs(r io.Reader, fn func(a, b string)) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fn(record[0], record[1])
	}
}
