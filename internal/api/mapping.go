package api

import (
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

func toUserResponse(user models.User, subscribed bool) types.UserResponse {
	resp := types.UserResponse{
		Email:        user.Email,
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
	if user.Avatar != "" {
		avatar := user.Avatar
		resp.Avatar = &avatar
	}
	return resp
}

func toUserResponses(views []service.UserView) []types.UserResponse {
	out := make([]types.UserResponse, len(views))
	for i, v := range views {
		out[i] = toUserResponse(v.User, v.IsSubscribed)
	}
	return out
}

func toTagResponse(tag models.Tag) types.TagResponse {
	return types.TagResponse{ID: tag.ID, Name: tag.Name, Slug: tag.Slug}
}

func toTagResponses(tags []models.Tag) []types.TagResponse {
	out := make([]types.TagResponse, len(tags))
	for i, tag := range tags {
		out[i] = toTagResponse(tag)
	}
	return out
}

func toIngredientResponse(ingredient models.Ingredient) types.IngredientResponse {
	return types.IngredientResponse{
		ID:              ingredient.ID,
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}
}

func toIngredientResponses(ingredients []models.Ingredient) []types.IngredientResponse {
	out := make([]types.IngredientResponse, len(ingredients))
	for i, ingredient := range ingredients {
		out[i] = toIngredientResponse(ingredient)
	}
	return out
}

func toRecipeResponse(view service.RecipeView) types.RecipeResponse {
	recipe := view.Recipe
	ingredients := make([]types.RecipeIngredientResponse, len(recipe.Ingredients))
	for i, ri := range recipe.Ingredients {
		ingredients[i] = types.RecipeIngredientResponse{
			ID:              ri.Ingredient.ID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		}
	}
	return types.RecipeResponse{
		ID:               recipe.ID,
		Tags:             toTagResponses(recipe.Tags),
		Author:           toUserResponse(recipe.Author, view.AuthorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      view.IsFavorited,
		IsInShoppingCart: view.IsInShoppingCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}

func toRecipeResponses(views []service.RecipeView) []types.RecipeResponse {
	out := make([]types.RecipeResponse, len(views))
	for i, v := range views {
		out[i] = toRecipeResponse(v)
	}
	return out
}

func toRecipeShortResponse(recipe models.Recipe) types.RecipeShortResponse {
	return types.RecipeShortResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

func toSubscriptionResponse(view service.AuthorView) types.SubscriptionResponse {
	recipes := make([]types.RecipeShortResponse, len(view.Recipes))
	for i, r := range view.Recipes {
		recipes[i] = toRecipeShortResponse(r)
	}
	return types.SubscriptionResponse{
		UserResponse: toUserResponse(view.User, view.IsSubscribed),
		RecipesCount: view.RecipesCount,
		Recipes:      recipes,
	}
}

func toSubscriptionResponses(views []service.AuthorView) []types.SubscriptionResponse {
	out := make([]types.SubscriptionResponse, len(views))
	for i, v := range views {
		out[i] = toSubscriptionResponse(v)
	}
	return out
}

func toRecipeInput(req types.RecipeRequest) service.RecipeInput {
	ingredients := make([]service.IngredientAmount, len(req.Ingredients))
	for i, item := range req.Ingredients {
		ingredients[i] = service.IngredientAmount{IngredientID: item.ID, Amount: item.Amount}
	}
	return service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       req.Image,
		Tags:        req.Tags,
		Ingredients: ingredients,
	}
}
