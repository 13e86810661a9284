package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/shoppinglist"
	"github.com/pageza/foodgram/backend/internal/shortlink"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	auth   *service.AuthService
	blobs  *storage.MemoryStore
	deps   Deps
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	blobs := storage.NewMemoryStore("/media/")
	settings := config.DefaultSettings()
	codec, err := shortlink.New("", shortlink.DefaultMinLength)
	require.NoError(t, err)

	auth := service.NewAuthService(db, "test-secret", time.Hour, nil)
	deps := Deps{
		Auth:          auth,
		Users:         service.NewUserService(db, blobs),
		Subscriptions: service.NewSubscriptionService(db),
		Catalog:       service.NewCatalogService(db),
		Recipes:       service.NewRecipeService(db, blobs, settings.Recipe, codec),
		Shopping:      service.NewShoppingService(db, shoppinglist.NewRenderer(settings.ShoppingList)),
		Blobs:         blobs,
		Settings:      settings,
	}

	router := gin.New()
	RegisterRoutes(router, deps)

	return &testAPI{t: t, db: db, router: router, auth: auth, blobs: blobs, deps: deps}
}

func (a *testAPI) token(user *models.User) string {
	a.t.Helper()
	token, err := a.auth.GenerateToken(user)
	require.NoError(a.t, err)
	return token
}

// do sends body as JSON; an empty token sends an anonymous request
func (a *testAPI) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

type errorBody struct {
	Errors map[string][]string `json:"errors"`
}

type messageBody struct {
	Errors string `json:"errors"`
}

func requireStatus(t *testing.T, rr *httptest.ResponseRecorder, code int) {
	t.Helper()
	require.Equal(t, code, rr.Code, rr.Body.String())
}
