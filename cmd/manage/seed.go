package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/types"
)

const demoPassword = "testpassword123"

// 1x1 transparent PNG used as the image of every demo recipe
const demoImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

var demoUsers = []types.RegisterRequest{
	{Email: "john.doe@example.com", Username: "johndoe", FirstName: "John", LastName: "Doe"},
	{Email: "jane.smith@example.com", Username: "janesmith", FirstName: "Jane", LastName: "Smith"},
	{Email: "bob.wilson@example.com", Username: "bobwilson", FirstName: "Bob", LastName: "Wilson"},
}

var seedDemoCmd = &cobra.Command{
	Use:   "seed-demo",
	Short: "Create demo accounts, each with one recipe, for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.StorageBackend != "local" {
			return fmt.Errorf("seed-demo writes images to local storage; STORAGE_BACKEND is %q", cfg.StorageBackend)
		}
		store := storage.NewLocalStorage(cfg.MediaRoot, cfg.MediaURL)
		return seedDemo(cmd.Context(), cmd.OutOrStdout(), db, store)
	},
}

// seedDemo registers the demo users that do not exist yet and gives each new
// user a recipe built from the first tag and ingredients of the catalog
func seedDemo(ctx context.Context, out io.Writer, db *gorm.DB, store storage.Storage) error {
	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)

	auth := service.NewAuthService(userRepo, nil, "seed", time.Hour)
	recipes := service.NewRecipeService(
		recipeRepo,
		catalogRepo,
		repository.NewFavoriteRepository(db),
		repository.NewShoppingCartRepository(db),
		repository.NewSubscriptionRepository(db),
		service.NewImageService(store),
		service.NewShortLinkService(recipeRepo, nil),
	)

	tags, err := catalogRepo.ListTags(ctx)
	if err != nil {
		return err
	}
	ingredients, err := catalogRepo.SearchIngredients(ctx, "")
	if err != nil {
		return err
	}
	canCook := len(tags) > 0 && len(ingredients) >= 2
	if !canCook {
		fmt.Fprintln(out, "catalog is empty, run load-tags and load-ingredients for demo recipes")
	}

	for _, req := range demoUsers {
		if _, err := userRepo.GetByEmail(ctx, req.Email); err == nil {
			fmt.Fprintf(out, "user %s already exists, skipping\n", req.Username)
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		req.Password = demoPassword
		user, err := auth.Register(ctx, req)
		if err != nil {
			return fmt.Errorf("create %s: %w", req.Username, err)
		}
		fmt.Fprintf(out, "created user %s\n", user.Username)

		if !canCook {
			continue
		}
		name := fmt.Sprintf("%s's %s", user.FirstName, ingredients[0].Name)
		text := "Combine everything and cook until done."
		cookingTime := 30
		if _, err := recipes.Create(ctx, user.ID, service.RecipeInput{
			Name:        &name,
			Text:        &text,
			CookingTime: &cookingTime,
			Image:       demoImage,
			Tags:        []uint{tags[0].ID},
			Ingredients: []service.IngredientAmount{
				{IngredientID: ingredients[0].ID, Amount: 200},
				{IngredientID: ingredients[1].ID, Amount: 2},
			},
		}); err != nil {
			return fmt.Errorf("create recipe for %s: %w", user.Username, err)
		}
	}

	fmt.Fprintf(out, "demo password for every account: %s\n", demoPassword)
	return nil
}
