package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/types"
)

const testToken = "valid-token"

type testServer struct {
	router        *gin.Engine
	auth          *mocks.MockAuthService
	users         *mocks.MockUserService
	subscriptions *mocks.MockSubscriptionService
	catalog       *mocks.MockCatalogService
	recipes       *mocks.MockRecipeService
	favorites     *mocks.MockRecipeRelationService
	cart          *mocks.MockRecipeRelationService
	shoppingList  *mocks.MockShoppingListService
	shortLinks    *mocks.MockShortLinkService
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &testServer{
		auth:          new(mocks.MockAuthService),
		users:         new(mocks.MockUserService),
		subscriptions: new(mocks.MockSubscriptionService),
		catalog:       new(mocks.MockCatalogService),
		recipes:       new(mocks.MockRecipeService),
		favorites:     new(mocks.MockRecipeRelationService),
		cart:          new(mocks.MockRecipeRelationService),
		shoppingList:  new(mocks.MockShoppingListService),
		shortLinks:    new(mocks.MockShortLinkService),
	}
	s.auth.On("ValidateToken", mock.Anything, testToken).Return(&types.TokenClaims{UserID: 1, Username: "vasya"}, nil).Maybe()

	s.router = router.SetupRouter(router.Handlers{
		Auth:    api.NewAuthHandler(s.auth),
		Users:   api.NewUserHandler(s.auth, s.users, s.subscriptions, 6),
		Catalog: api.NewCatalogHandler(s.catalog),
		Recipes: api.NewRecipeHandler(api.RecipeHandlerConfig{
			Recipes:          s.recipes,
			Favorites:        s.favorites,
			Cart:             s.cart,
			ShoppingList:     s.shoppingList,
			ShortLinks:       s.shortLinks,
			PageSize:         6,
			ShortLinkBaseURL: "https://foodgram.example/",
		}),
		ShortLinks: api.NewShortLinkHandler(s.shortLinks),
		Health:     api.NewHealthHandler(nil, nil),
	}, router.Options{Tokens: s.auth})

	t.Cleanup(func() {
		for _, m := range []interface{ AssertExpectations(mock.TestingT) bool }{
			s.users, s.subscriptions, s.catalog, s.recipes, s.favorites, s.cart, s.shoppingList, s.shortLinks,
		} {
			m.AssertExpectations(t)
		}
	})
	return s
}

func (s *testServer) do(method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Token "+testToken)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not a JSON object: %v: %s", err, w.Body.String())
	}
	return out
}
