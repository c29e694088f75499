package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
)

// IngredientAmount is one requested (ingredient, amount) pair
type IngredientAmount struct {
	IngredientID uint
	Amount       int
}

// RecipeInput carries a recipe write. Nil scalars keep the current value on
// update and are rejected on create; an empty Image keeps the current image.
type RecipeInput struct {
	Name        *string
	Text        *string
	CookingTime *int
	Image       string
	Tags        []uint
	Ingredients []IngredientAmount
}

// RecipeQuery selects a page of recipes. FavoritedOnly and InCartOnly only
// apply to authenticated viewers.
type RecipeQuery struct {
	AuthorID      uint
	TagSlugs      []string
	FavoritedOnly bool
	InCartOnly    bool
	Offset        int
	Limit         int
}

// RecipeView is a recipe with the viewer-dependent flags resolved; anonymous
// viewers always see false
type RecipeView struct {
	Recipe           *models.Recipe
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorSubscribed bool
}

type RecipeService struct {
	recipes       repository.RecipeRepository
	catalog       repository.CatalogRepository
	favorites     repository.RecipeRelationRepository
	cart          repository.RecipeRelationRepository
	subscriptions repository.SubscriptionRepository
	images        *ImageService
	shortLinks    *ShortLinkService
}

func NewRecipeService(
	recipes repository.RecipeRepository,
	catalog repository.CatalogRepository,
	favorites repository.RecipeRelationRepository,
	cart repository.RecipeRelationRepository,
	subscriptions repository.SubscriptionRepository,
	images *ImageService,
	shortLinks *ShortLinkService,
) *RecipeService {
	return &RecipeService{
		recipes:       recipes,
		catalog:       catalog,
		favorites:     favorites,
		cart:          cart,
		subscriptions: subscriptions,
		images:        images,
		shortLinks:    shortLinks,
	}
}

// Create stores a recipe with its ingredients and tags, then gives it a short id
func (s *RecipeService) Create(ctx context.Context, authorID uint, in RecipeInput) (*RecipeView, error) {
	if err := validateRecipeInput(in, true); err != nil {
		return nil, err
	}
	tags, err := s.resolveCatalog(ctx, in)
	if err != nil {
		return nil, err
	}

	image, err := s.images.SaveDataURI(ctx, "recipes", "image", in.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        strings.TrimSpace(*in.Name),
		Text:        *in.Text,
		CookingTime: *in.CookingTime,
		Image:       image,
		Tags:        tags,
		Ingredients: ingredientRows(in.Ingredients),
	}
	if err := s.recipes.Create(ctx, recipe, s.shortLinks.codeGenerator); err != nil {
		s.images.Remove(ctx, image)
		return nil, err
	}

	return s.Get(ctx, authorID, recipe.ID)
}

// Update replaces a recipe's fields and its full ingredient and tag sets.
// Only the author may update.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID uint, in RecipeInput) (*RecipeView, error) {
	current, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if current.AuthorID != userID {
		return nil, ErrForbidden
	}

	if err := validateRecipeInput(in, false); err != nil {
		return nil, err
	}
	tags, err := s.resolveCatalog(ctx, in)
	if err != nil {
		return nil, err
	}

	updated := &models.Recipe{
		ID:          current.ID,
		Name:        current.Name,
		Text:        current.Text,
		CookingTime: current.CookingTime,
		Image:       current.Image,
		Tags:        tags,
		Ingredients: ingredientRows(in.Ingredients),
	}
	if in.Name != nil {
		updated.Name = strings.TrimSpace(*in.Name)
	}
	if in.Text != nil {
		updated.Text = *in.Text
	}
	if in.CookingTime != nil {
		updated.CookingTime = *in.CookingTime
	}
	if in.Image != "" {
		updated.Image, err = s.images.SaveDataURI(ctx, "recipes", "image", in.Image)
		if err != nil {
			return nil, err
		}
	}

	if err := s.recipes.Update(ctx, updated); err != nil {
		if updated.Image != current.Image {
			s.images.Remove(ctx, updated.Image)
		}
		return nil, err
	}
	if updated.Image != current.Image {
		s.images.Remove(ctx, current.Image)
	}

	return s.Get(ctx, userID, recipeID)
}

// Delete removes a recipe and everything hanging off it. Only the author may delete.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID uint) error {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return ErrForbidden
	}
	if err := s.recipes.Delete(ctx, recipeID); err != nil {
		return err
	}

	if recipe.ShortID != nil {
		s.shortLinks.Forget(ctx, *recipe.ShortID)
	}
	s.images.Remove(ctx, recipe.Image)
	return nil
}

func (s *RecipeService) Get(ctx context.Context, viewerID, recipeID uint) (*RecipeView, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, viewerID, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *RecipeService) List(ctx context.Context, viewerID uint, q RecipeQuery) ([]RecipeView, int64, error) {
	filter := repository.RecipeFilter{
		AuthorID: q.AuthorID,
		TagSlugs: q.TagSlugs,
		Offset:   q.Offset,
		Limit:    q.Limit,
	}
	// for anonymous viewers the favorite and cart filters are no-ops
	if viewerID != 0 {
		if q.FavoritedOnly {
			filter.FavoritedBy = viewerID
		}
		if q.InCartOnly {
			filter.InCartOf = viewerID
		}
	}

	recipes, total, err := s.recipes.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.views(ctx, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *RecipeService) views(ctx context.Context, viewerID uint, recipes []models.Recipe) ([]RecipeView, error) {
	views := make([]RecipeView, len(recipes))
	for i := range recipes {
		views[i] = RecipeView{Recipe: &recipes[i]}
	}
	if viewerID == 0 || len(recipes) == 0 {
		return views, nil
	}

	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs[i] = r.AuthorID
	}

	favorited, err := s.favorites.Marked(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.cart.Marked(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	following, err := s.subscriptions.Following(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	for i, r := range recipes {
		views[i].IsFavorited = favorited[r.ID]
		views[i].IsInShoppingCart = inCart[r.ID]
		views[i].AuthorSubscribed = following[r.AuthorID]
	}
	return views, nil
}

// resolveCatalog checks that every referenced tag and ingredient exists
func (s *RecipeService) resolveCatalog(ctx context.Context, in RecipeInput) ([]models.Tag, error) {
	tags, err := s.catalog.FindTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(in.Tags) {
		return nil, newValidationError("tags", "one or more tags do not exist")
	}

	ids := make([]uint, len(in.Ingredients))
	for i, item := range in.Ingredients {
		ids[i] = item.IngredientID
	}
	count, err := s.catalog.CountIngredients(ctx, ids)
	if err != nil {
		return nil, err
	}
	if count != int64(len(ids)) {
		return nil, newValidationError("ingredients", "one or more ingredients do not exist")
	}
	return tags, nil
}

// validateRecipeInput enforces the write rules. Tags and ingredients are
// always required because an update rewrites both sets.
func validateRecipeInput(in RecipeInput, creating bool) error {
	if len(in.Tags) == 0 {
		return newValidationError("tags", "at least one tag is required")
	}
	seenTags := make(map[uint]struct{}, len(in.Tags))
	for _, id := range in.Tags {
		if _, dup := seenTags[id]; dup {
			return newValidationError("tags", fmt.Sprintf("tag %d is listed more than once", id))
		}
		seenTags[id] = struct{}{}
	}

	if len(in.Ingredients) == 0 {
		return newValidationError("ingredients", "at least one ingredient is required")
	}
	seenIngredients := make(map[uint]struct{}, len(in.Ingredients))
	for _, item := range in.Ingredients {
		if _, dup := seenIngredients[item.IngredientID]; dup {
			return newValidationError("ingredients", fmt.Sprintf("ingredient %d is listed more than once", item.IngredientID))
		}
		seenIngredients[item.IngredientID] = struct{}{}
		if item.Amount < 1 {
			return newValidationError("ingredients", "amount must be at least 1")
		}
	}

	if creating && in.Image == "" {
		return newValidationError("image", "this field is required")
	}

	if creating || in.Name != nil {
		if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
			return newValidationError("name", "this field is required")
		}
		if len([]rune(*in.Name)) > 256 {
			return newValidationError("name", "ensure this field has no more than 256 characters")
		}
	}
	if creating || in.Text != nil {
		if in.Text == nil || strings.TrimSpace(*in.Text) == "" {
			return newValidationError("text", "this field is required")
		}
	}
	if creating || in.CookingTime != nil {
		if in.CookingTime == nil {
			return newValidationError("cooking_time", "this field is required")
		}
		if *in.CookingTime < 1 {
			return newValidationError("cooking_time", "cooking time must be at least 1 minute")
		}
	}
	return nil
}

func ingredientRows(items []IngredientAmount) []models.RecipeIngredient {
	rows := make([]models.RecipeIngredient, len(items))
	for i, item := range items {
		rows[i] = models.RecipeIngredient{IngredientID: item.IngredientID, Amount: item.Amount}
	}
	return rows
}
