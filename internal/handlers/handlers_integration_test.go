package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"etalase/internal/authprovider"
	"etalase/internal/flagstore"
	"etalase/internal/gateway"
	"etalase/internal/handlers"
	"etalase/internal/imageurl"
	"etalase/internal/middleware"
	"etalase/internal/repositories"
	"etalase/internal/services"
	"etalase/internal/session"
	"etalase/internal/validation"
	"etalase/internal/viewmodels"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// apiClient drives the app the way a single client would, sending the id
// token it last received as a bearer token.
type apiClient struct {
	t     *testing.T
	app   *fiber.App
	token string
}

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(t *testing.T) *apiClient {
	t.Helper()

	v := viper.New()
	v.SetDefault("JWT_SECRET", "test_jwt_secret")
	v.AutomaticEnv()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to connect to in-memory database")
	require.NoError(t, repositories.AutoMigrate(db), "failed to auto-migrate database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	profiles := repositories.NewGORMProfileRepository(db)
	products := repositories.NewGORMProductRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	logger := zap.NewNop()

	images := imageurl.NewRewriter("")
	mapper := viewmodels.NewMapper(images)
	validator := validation.New()
	sessions := session.NewStore()

	gw := gateway.New(profiles, products, reviewRepo, images, nil, logger)
	provider := authprovider.NewLocal(repositories.NewGORMUserRepository(db), v.GetString("JWT_SECRET"), logger)
	facade := session.NewFacade(sessions, provider, repositories.NewGORMUserProfileRepository(db), flagstore.NewMemoryStore(), validator, nil, logger)

	members := middleware.MembersOnly(sessions, provider)
	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(facade, members, logger).RegisterRoutes(apiV1)
	handlers.NewStoreHandler(gw, mapper, sessions,
		services.NewProductService(products, profiles, sessions, validator, nil, nil, logger),
		services.NewReviewService(reviewRepo, profiles, gw, sessions, validator, nil, nil, logger),
		members,
		logger,
	).RegisterRoutes(apiV1)
	handlers.NewProfileHandler(services.NewProfileService(profiles, sessions, validator, nil, nil, logger), mapper, members, logger).RegisterRoutes(apiV1)
	return &apiClient{t: t, app: app}
}

// call sends a JSON request. A "token" in the response replaces the one held.
func (c *apiClient) call(method, path string, body any) (int, map[string]any) {
	t := c.t
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	} else if len(raw) > 0 {
		out["_list"] = string(raw)
	}
	if token, ok := out["token"].(string); ok && token != "" {
		c.token = token
	}
	return resp.StatusCode, out
}

func (c *apiClient) signup(first, email string) string {
	t := c.t
	t.Helper()
	status, body := c.call(http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"firstName":       first,
		"lastName":        "Santoso",
		"email":           email,
		"password":        "rahasia1",
		"confirmPassword": "rahasia1",
		"acceptTerms":     true,
	})
	require.Equal(t, http.StatusCreated, status, body)
	sess := body["session"].(map[string]any)
	assert.Equal(t, "signed_in", sess["state"])
	return sess["identity"].(map[string]any)["uid"].(string)
}

func (c *apiClient) logout() {
	c.t.Helper()
	status, _ := c.call(http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(c.t, http.StatusOK, status)
	c.token = ""
}

func TestAuthSignupLoginAndErrors(t *testing.T) {
	api := setupApp(t)

	api.signup("Budi", "budi@example.com")

	status, body := api.call(http.MethodGet, "/api/v1/auth/session", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Budi", body["profile"].(map[string]any)["firstName"])
	api.logout()

	status, body = api.call(http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"firstName": "Budi", "lastName": "Santoso", "email": "budi@example.com",
		"password": "rahasia1", "confirmPassword": "rahasia1", "acceptTerms": true,
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "email_in_use", body["category"])

	status, body = api.call(http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"firstName": "Ani", "lastName": "Wijaya", "email": "ani@example.com",
		"password": "abc", "confirmPassword": "abc", "acceptTerms": true,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "password")

	status, body = api.call(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "budi@example.com", "password": "salah"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "wrong_password", body["category"])

	status, body = api.call(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "nobody@example.com", "password": "rahasia1"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unknown_account", body["category"])
	assert.Equal(t, "No account found with this email.", body["message"])

	status, body = api.call(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "budi@example.com", "password": "rahasia1"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Login successful", body["message"])

	status, _ = api.call(http.MethodPatch, "/api/v1/auth/profile", map[string]string{"lastName": "Prasetyo"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = api.call(http.MethodPost, "/api/v1/auth/reset-password", map[string]string{"email": "budi@example.com"})
	assert.Equal(t, http.StatusOK, status)
}

func TestGuestFlow(t *testing.T) {
	api := setupApp(t)

	status, body := api.call(http.MethodPost, "/api/v1/auth/anonymous", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "guest", body["session"].(map[string]any)["state"])

	status, _ = api.call(http.MethodPatch, "/api/v1/auth/profile", map[string]string{"firstName": "Tamu"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.call(http.MethodPost, "/api/v1/stores/store-1/reviews", map[string]any{"rating": 5})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.call(http.MethodPost, "/api/v1/profiles", map[string]any{"name": "Warung"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = api.call(http.MethodPost, "/api/v1/auth/guest-upgrade", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "signed_out", body["session"].(map[string]any)["state"])

	status, body = api.call(http.MethodGet, "/api/v1/auth/pending-signup", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["pendingSignup"])

	_, body = api.call(http.MethodGet, "/api/v1/auth/pending-signup", nil)
	assert.Equal(t, false, body["pendingSignup"])
}

func TestStorefrontFlow(t *testing.T) {
	api := setupApp(t)

	ownerID := api.signup("Siti", "siti@example.com")
	profile := map[string]any{
		"name":        "Warung Siti",
		"address":     "Jl. Merdeka 10, Bandung",
		"hours":       "08:00-21:00",
		"profileType": "no-such-type",
		"socialLinks": []map[string]string{{"platform": "instagram", "url": "https://instagram.com/warungsiti"}},
	}
	status, body := api.call(http.MethodPost, "/api/v1/profiles", profile)
	require.Equal(t, http.StatusCreated, status, body)
	storeID := body["id"].(string)
	assert.Equal(t, "Unknown Type", body["profileType"].(map[string]any)["name"])

	status, _ = api.call(http.MethodPost, "/api/v1/profiles", profile)
	assert.Equal(t, http.StatusConflict, status, "one profile per owner")

	status, body = api.call(http.MethodPost, "/api/v1/stores/"+storeID+"/products", map[string]any{"name": "Kopi Susu", "price": 18000})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "18000.00", body["priceLabel"])
	assert.Equal(t, true, body["inStock"])
	productID := body["id"].(string)

	status, body = api.call(http.MethodPost, "/api/v1/stores/"+storeID+"/products", map[string]any{"name": "", "price": 0})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "name")

	status, body = api.call(http.MethodGet, "/api/v1/stores/owner/"+ownerID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Warung Siti", body["profile"].(map[string]any)["name"])
	assert.Len(t, body["products"], 1)

	status, body = api.call(http.MethodGet, "/api/v1/stores/owner/nobody", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["profile"])

	status, _ = api.call(http.MethodPost, "/api/v1/stores/"+storeID+"/reviews", map[string]any{"rating": 5})
	assert.Equal(t, http.StatusForbidden, status, "owners cannot review their own store")
	api.logout()

	api.signup("Budi", "budi@example.com")
	status, _ = api.call(http.MethodDelete, "/api/v1/stores/"+storeID+"/products/"+productID, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = api.call(http.MethodPost, "/api/v1/stores/"+storeID+"/reviews", map[string]any{"rating": 4, "comment": "Enak"})
	assert.Equal(t, http.StatusCreated, status)
	status, body = api.call(http.MethodPost, "/api/v1/stores/"+storeID+"/reviews", map[string]any{"rating": 2, "authorName": "Budi"})
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Budi", body["authorName"])

	status, _ = api.call(http.MethodPost, "/api/v1/stores/"+storeID+"/reviews", map[string]any{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = api.call(http.MethodGet, "/api/v1/stores/"+storeID+"/reviews", nil)
	require.Equal(t, http.StatusOK, status)
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["count"])
	assert.Equal(t, float64(2), summary["averageRating"])
	assert.Equal(t, true, body["userHasReviewed"])
	assert.Equal(t, true, body["canWrite"])

	status, body = api.call(http.MethodGet, "/api/v1/stores/"+storeID+"/products", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["_list"], "Kopi Susu")
}

func TestMemberWritesRequireTheSessionToken(t *testing.T) {
	api := setupApp(t)
	api.signup("Ayu", "ayu@example.com")
	token := api.token
	require.NotEmpty(t, token)

	profile := map[string]any{"name": "Toko Ayu", "address": "Jl. Sudirman 1", "hours": "09:00-17:00"}

	api.token = ""
	status, body := api.call(http.MethodPost, "/api/v1/profiles", profile)
	assert.Equal(t, http.StatusUnauthorized, status, body)

	api.token = "garbage"
	status, _ = api.call(http.MethodPost, "/api/v1/profiles", profile)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = api.call(http.MethodPatch, "/api/v1/auth/profile", map[string]string{"lastName": "Lestari"})
	assert.Equal(t, http.StatusUnauthorized, status)

	api.token = token
	status, body = api.call(http.MethodPost, "/api/v1/profiles", profile)
	assert.Equal(t, http.StatusCreated, status, body)
}
