package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

// a 1x1 transparent PNG
const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type testEnv struct {
	db            *gorm.DB
	mediaRoot     string
	auth          *service.AuthService
	users         *service.UserService
	catalog       *service.CatalogService
	recipes       *service.RecipeService
	favorites     *service.RecipeRelationService
	cart          *service.RecipeRelationService
	subscriptions *service.SubscriptionService
	shoppingList  *service.ShoppingListService
	shortLinks    *service.ShortLinkService
}

func setupEnv(t *testing.T) *testEnv {
	return setupEnvWithRedis(t, nil)
}

func setupEnvWithRedis(t *testing.T, redisClient *redis.Client) *testEnv {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	mediaRoot := t.TempDir()

	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cartRepo := repository.NewShoppingCartRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	images := service.NewImageService(storage.NewLocalStorage(mediaRoot, "/media/"))
	shortLinks := service.NewShortLinkService(recipeRepo, redisClient)

	return &testEnv{
		db:            db,
		mediaRoot:     mediaRoot,
		auth:          service.NewAuthService(userRepo, redisClient, "test-secret", time.Hour),
		users:         service.NewUserService(userRepo, subscriptionRepo, images),
		catalog:       service.NewCatalogService(catalogRepo),
		recipes:       service.NewRecipeService(recipeRepo, catalogRepo, favoriteRepo, cartRepo, subscriptionRepo, images, shortLinks),
		favorites:     service.NewFavoriteService(recipeRepo, favoriteRepo),
		cart:          service.NewShoppingCartService(recipeRepo, cartRepo),
		subscriptions: service.NewSubscriptionService(userRepo, recipeRepo, subscriptionRepo),
		shoppingList:  service.NewShoppingListService(repository.NewShoppingListRepository(db)),
		shortLinks:    shortLinks,
	}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

var ctx = context.Background()
