package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipes       service.IRecipeService
	favorites     service.IRecipeRelationService
	cart          service.IRecipeRelationService
	shoppingList  service.IShoppingListService
	shortLinks    service.IShortLinkService
	pageSize      int
	shortLinkBase string
}

// RecipeHandlerConfig collects the recipe handler's collaborators
type RecipeHandlerConfig struct {
	Recipes      service.IRecipeService
	Favorites    service.IRecipeRelationService
	Cart         service.IRecipeRelationService
	ShoppingList service.IShoppingListService
	ShortLinks   service.IShortLinkService
	PageSize     int
	// ShortLinkBaseURL prefixes generated short links; the request host is used when empty
	ShortLinkBaseURL string
}

func NewRecipeHandler(cfg RecipeHandlerConfig) *RecipeHandler {
	return &RecipeHandler{
		recipes:       cfg.Recipes,
		favorites:     cfg.Favorites,
		cart:          cfg.Cart,
		shoppingList:  cfg.ShoppingList,
		shortLinks:    cfg.ShortLinks,
		pageSize:      cfg.PageSize,
		shortLinkBase: strings.TrimSuffix(cfg.ShortLinkBaseURL, "/"),
	}
}

func (h *RecipeHandler) List(c *gin.Context) {
	p, ok := parsePage(c, h.pageSize)
	if !ok {
		return
	}

	q := service.RecipeQuery{
		TagSlugs:      c.QueryArray("tags"),
		FavoritedOnly: truthy(c.Query("is_favorited")),
		InCartOnly:    truthy(c.Query("is_in_shopping_cart")),
		Offset:        p.Offset(),
		Limit:         p.Limit,
	}
	if raw := c.Query("author"); raw != "" {
		author, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, fieldErrors("author", "select a valid author"))
			return
		}
		q.AuthorID = uint(author)
	}

	views, total, err := h.recipes.List(c.Request.Context(), middleware.CurrentUserID(c), q)
	if err != nil {
		respondError(c, err)
		return
	}
	writePage(c, p, total, toRecipeResponses(views))
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.recipes.Get(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRecipeResponse(*view))
}

func (h *RecipeHandler) Create(c *gin.Context) {
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.recipes.Create(c.Request.Context(), middleware.CurrentUserID(c), toRecipeInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRecipeResponse(*view))
}

func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.recipes.Update(c.Request.Context(), middleware.CurrentUserID(c), id, toRecipeInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRecipeResponse(*view))
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addRelation(c, h.favorites)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeRelation(c, h.favorites)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addRelation(c, h.cart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, h.cart)
}

func (h *RecipeHandler) addRelation(c *gin.Context, relations service.IRecipeRelationService) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	recipe, err := relations.Add(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRecipeShortResponse(*recipe))
}

func (h *RecipeHandler) removeRelation(c *gin.Context, relations service.IRecipeRelationService) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := relations.Remove(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart sends the aggregated shopping list as a text attachment
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	items, err := h.shoppingList.Build(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.ShoppingListFilename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.Render(items)))
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	shortID, err := h.shortLinks.ShortIDFor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	base := h.shortLinkBase
	if base == "" {
		base = requestScheme(c) + "://" + c.Request.Host
	}
	c.JSON(http.StatusOK, types.ShortLinkResponse{ShortLink: base + "/s/" + shortID})
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true":
		return true
	}
	return false
}
