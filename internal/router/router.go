package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/middleware"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth       *api.AuthHandler
	Users      *api.UserHandler
	Catalog    *api.CatalogHandler
	Recipes    *api.RecipeHandler
	ShortLinks *api.ShortLinkHandler
	Health     *api.HealthHandler
}

// Options carries the cross-cutting pieces of the router
type Options struct {
	Tokens      middleware.TokenValidator
	CORSOrigins []string
	// CreateLimiter throttles recipe creation per user; nil disables it
	CreateLimiter *middleware.RateLimiter
	// ShortLinkLimiter throttles the public redirect per client address; nil disables it
	ShortLinkLimiter *middleware.IPRateLimiter
	// MediaURL and MediaRoot serve locally stored images when both are set
	MediaURL  string
	MediaRoot string
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	api.UseJSONFieldNames()

	router := gin.New()
	router.Use(middleware.Recovery(), logger.GinLogger())
	if len(opts.CORSOrigins) > 0 {
		router.Use(middleware.CORS(opts.CORSOrigins))
	}

	requireAuth := middleware.AuthMiddleware(opts.Tokens)
	optionalAuth := middleware.OptionalAuth(opts.Tokens)

	createRecipe := []gin.HandlerFunc{requireAuth}
	if opts.CreateLimiter != nil {
		createRecipe = append(createRecipe, opts.CreateLimiter.RateLimitMiddleware())
	}
	createRecipe = append(createRecipe, h.Recipes.Create)

	v := router.Group("/api")
	v.GET("/health", h.Health.Health)

	auth := v.Group("/auth/token")
	{
		auth.POST("/login/", h.Auth.Login)
		auth.POST("/logout/", requireAuth, h.Auth.Logout)
	}

	users := v.Group("/users")
	{
		users.POST("/", h.Users.Register)
		users.GET("/", optionalAuth, h.Users.List)
		users.GET("/me/", requireAuth, h.Users.Me)
		users.PUT("/me/avatar/", requireAuth, h.Users.UpdateAvatar)
		users.DELETE("/me/avatar/", requireAuth, h.Users.DeleteAvatar)
		users.POST("/set_password/", requireAuth, h.Users.SetPassword)
		users.GET("/subscriptions/", requireAuth, h.Users.Subscriptions)
		users.GET("/:id/", optionalAuth, h.Users.Get)
		users.POST("/:id/subscribe/", requireAuth, h.Users.Subscribe)
		users.DELETE("/:id/subscribe/", requireAuth, h.Users.Unsubscribe)
	}

	v.GET("/tags/", h.Catalog.ListTags)
	v.GET("/tags/:id/", h.Catalog.GetTag)
	v.GET("/ingredients/", h.Catalog.ListIngredients)
	v.GET("/ingredients/:id/", h.Catalog.GetIngredient)

	recipes := v.Group("/recipes")
	{
		recipes.GET("/", optionalAuth, h.Recipes.List)
		recipes.POST("/", createRecipe...)
		recipes.GET("/download_shopping_cart/", requireAuth, h.Recipes.DownloadShoppingCart)
		recipes.GET("/:id/", optionalAuth, h.Recipes.Get)
		recipes.PATCH("/:id/", requireAuth, h.Recipes.Update)
		recipes.DELETE("/:id/", requireAuth, h.Recipes.Delete)
		recipes.GET("/:id/get-link/", h.Recipes.GetLink)
		recipes.POST("/:id/favorite/", requireAuth, h.Recipes.AddFavorite)
		recipes.DELETE("/:id/favorite/", requireAuth, h.Recipes.RemoveFavorite)
		recipes.POST("/:id/shopping_cart/", requireAuth, h.Recipes.AddToCart)
		recipes.DELETE("/:id/shopping_cart/", requireAuth, h.Recipes.RemoveFromCart)
	}

	redirect := []gin.HandlerFunc{h.ShortLinks.Redirect}
	if opts.ShortLinkLimiter != nil {
		redirect = append([]gin.HandlerFunc{opts.ShortLinkLimiter.Middleware()}, redirect...)
	}
	router.GET("/s/:short_id", redirect...)

	if opts.MediaURL != "" && opts.MediaRoot != "" {
		router.Static(opts.MediaURL, opts.MediaRoot)
	}

	return router
}
