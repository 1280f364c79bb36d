package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/catalog-backend/internal/testutil"
)

type testServer struct {
	t     *testing.T
	app   *fiber.App
	db    *gorm.DB
	users *services.AuthService
}

func newTestServer(t *testing.T, prefix string, opts ...func(*config.Config)) *testServer {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		APIPrefix:          prefix,
		CORSOrigins:        "*",
		AccessTokenExpiry:  30 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		RequestTimeout:     2 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	tokens, err := auth.NewTokenService("routes-secret", "HS256")
	require.NoError(t, err)
	users := services.NewAuthService(db, cfg, auth.NewPasswordHasher(bcrypt.MinCost), tokens)
	m := metrics.New()

	app := routes.NewApp(cfg, m)
	routes.Setup(app, cfg, auth.NewResolver(tokens, users), m, routes.Handlers{
		Auth:        handlers.NewAuthHandler(users, m, false),
		Health:      handlers.NewHealthHandler(db),
		Category:    handlers.NewCategoryHandler(services.NewCategoryService(db)),
		Subcategory: handlers.NewSubcategoryHandler(services.NewSubcategoryService(db)),
		Product:     handlers.NewProductHandler(services.NewProductService(db)),
	})

	return &testServer{t: t, app: app, db: db, users: users}
}

type response struct {
	status  int
	body    []byte
	cookies []*http.Cookie
}

func (r response) decode(t *testing.T, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, out), string(r.body))
}

func (r response) message(t *testing.T) string {
	t.Helper()
	var e dto.ErrorResponse
	r.decode(t, &e)
	assert.True(t, e.Error)
	return e.Message
}

func (s *testServer) do(method, path, token string, body interface{}) response {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(s.t, err)
			raw = string(b)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return response{status: resp.StatusCode, body: b, cookies: resp.Cookies()}
}

// login registers a user and returns an access token for them.
func (s *testServer) login(email string, admin bool) string {
	s.t.Helper()
	r := s.do("POST", "/auth/register", "", map[string]string{
		"email": email, "password": "s3cret-pass", "full_name": "Test Person",
	})
	require.Equal(s.t, fiber.StatusCreated, r.status, string(r.body))
	if admin {
		require.NoError(s.t, s.users.SetAdmin(context.Background(), email, true))
	}

	r = s.do("POST", "/auth/login", "", map[string]string{"email": email, "password": "s3cret-pass"})
	require.Equal(s.t, fiber.StatusOK, r.status, string(r.body))
	var lr dto.LoginResponse
	r.decode(s.t, &lr)
	return lr.AccessToken
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, "")

	r := s.do("POST", "/auth/register", "", map[string]string{
		"email": "ada@example.com", "password": "s3cret-pass", "full_name": "Ada Lovelace",
	})
	require.Equal(t, fiber.StatusCreated, r.status)
	var registered map[string]interface{}
	r.decode(t, &registered)
	assert.Equal(t, "ada@example.com", registered["email"])
	assert.NotContains(t, registered, "password")

	r = s.do("POST", "/auth/register", "", map[string]string{
		"email": "ada@example.com", "password": "other-pass", "full_name": "Ada",
	})
	assert.Equal(t, fiber.StatusBadRequest, r.status)

	r = s.do("POST", "/auth/register", "", map[string]string{"email": "not-an-email", "password": "short"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, r.status)
	assert.Contains(t, r.message(t), "email")

	r = s.do("POST", "/auth/login", "", map[string]string{"email": "ada@example.com", "password": "s3cret-pass"})
	require.Equal(t, fiber.StatusOK, r.status)

	var lr dto.LoginResponse
	r.decode(t, &lr)
	assert.Equal(t, "Ada Lovelace", lr.User.FullName)
	assert.Equal(t, uint(registered["id"].(float64)), lr.User.ID)
	assert.NotEmpty(t, lr.AccessToken)
	assert.NotEmpty(t, lr.RefreshToken)

	cookies := map[string]*http.Cookie{}
	for _, c := range r.cookies {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, auth.AccessCookie)
	require.Contains(t, cookies, auth.RefreshCookie)
	assert.Equal(t, lr.AccessToken, cookies[auth.AccessCookie].Value)
	assert.True(t, cookies[auth.AccessCookie].HttpOnly)
	assert.Equal(t, 1800, cookies[auth.AccessCookie].MaxAge)
	assert.Equal(t, 86400, cookies[auth.RefreshCookie].MaxAge)

	r = s.do("POST", "/auth/login", "", map[string]string{"email": "ada@example.com", "password": "wrong-pass"})
	assert.Equal(t, fiber.StatusBadRequest, r.status)
	assert.Equal(t, "Incorrect email or password", r.message(t))

	r = s.do("GET", "/auth/users", "", nil)
	require.Equal(t, fiber.StatusOK, r.status)
	var users []map[string]interface{}
	r.decode(t, &users)
	assert.Len(t, users, 1)
}

func TestRefresh(t *testing.T) {
	s := newTestServer(t, "")
	s.login("ada@example.com", false)

	r := s.do("POST", "/auth/login", "", map[string]string{"email": "ada@example.com", "password": "s3cret-pass"})
	var lr dto.LoginResponse
	r.decode(t, &lr)

	r = s.do("POST", "/auth/refresh", "", map[string]string{"refresh_token": lr.RefreshToken})
	require.Equal(t, fiber.StatusOK, r.status, string(r.body))
	var rr dto.RefreshResponse
	r.decode(t, &rr)
	assert.NotEmpty(t, rr.AccessToken)

	req := httptest.NewRequest("POST", "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: auth.RefreshCookie, Value: lr.RefreshToken})
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "cookie refresh")

	r = s.do("POST", "/auth/refresh", "", map[string]string{"refresh_token": lr.AccessToken})
	assert.Equal(t, fiber.StatusUnauthorized, r.status)

	r = s.do("POST", "/auth/refresh", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, r.status)
}

func TestCatalogWritesNeedAdmin(t *testing.T) {
	s := newTestServer(t, "")
	reader := s.login("reader@example.com", false)

	payloads := []interface{}{
		map[string]interface{}{"name": "Shoes"},
		map[string]interface{}{},
		`{"broken json`,
	}
	for i, p := range payloads {
		r := s.do("POST", "/category/", reader, p)
		assert.Equal(t, fiber.StatusForbidden, r.status, "payload %d", i)
	}

	r := s.do("POST", "/category/", "", map[string]string{"name": "Shoes"})
	assert.Equal(t, fiber.StatusUnauthorized, r.status)
	assert.Equal(t, "Access token not found", r.message(t))

	r = s.do("POST", "/category/", "not-a-token", map[string]string{"name": "Shoes"})
	assert.Equal(t, fiber.StatusUnauthorized, r.status)
	assert.Equal(t, "Could not validate credentials", r.message(t))

	for _, route := range []string{"/category/1", "/subcategory/1", "/product/1"} {
		assert.Equal(t, fiber.StatusForbidden, s.do("PUT", route, reader, map[string]string{}).status, route)
		assert.Equal(t, fiber.StatusForbidden, s.do("DELETE", route, reader, nil).status, route)
	}
}

func TestCatalogFlow(t *testing.T) {
	s := newTestServer(t, "")
	admin := s.login("admin@example.com", true)

	r := s.do("POST", "/category/", admin, map[string]interface{}{"name": "Outdoor Gear", "description": "<i>All</i> weather"})
	require.Equal(t, fiber.StatusCreated, r.status, string(r.body))
	var category map[string]interface{}
	r.decode(t, &category)
	assert.Equal(t, "outdoor-gear", category["slug"])
	assert.Equal(t, "All weather", category["description"])
	categoryID := uint(category["id"].(float64))

	r = s.do("POST", "/category/", admin, map[string]interface{}{"name": "outdoor gear"})
	assert.Equal(t, fiber.StatusConflict, r.status)

	r = s.do("POST", "/category/", admin, map[string]interface{}{"description": "no name"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, r.status)

	r = s.do("POST", "/subcategory/", admin, map[string]interface{}{"category_id": categoryID, "name": "Tents"})
	require.Equal(t, fiber.StatusCreated, r.status, string(r.body))
	var sub map[string]interface{}
	r.decode(t, &sub)
	subID := uint(sub["id"].(float64))

	r = s.do("POST", "/subcategory/", admin, map[string]interface{}{"category_id": 999, "name": "Lost"})
	assert.Equal(t, fiber.StatusNotFound, r.status)

	r = s.do("POST", "/product/", admin, map[string]interface{}{
		"subcategory_id": subID,
		"name":           "Dome Tent",
		"price":          "249.00",
		"discount_price": "199.00",
		"attributes":     map[string]interface{}{"sleeps": 3},
		"images":         []map[string]interface{}{{"image_path": "/img/dome.png", "is_primary": true}},
		"variations":     []map[string]interface{}{{"name": "Green", "sku": "DOME-G", "price": "249.00"}},
	})
	require.Equal(t, fiber.StatusCreated, r.status, string(r.body))
	var product map[string]interface{}
	r.decode(t, &product)
	productID := uint(product["id"].(float64))
	assert.Equal(t, "dome-tent", product["slug"])
	assert.Len(t, product["variations"], 1)

	r = s.do("POST", "/product/", admin, map[string]interface{}{
		"subcategory_id": subID, "name": "Tunnel Tent", "price": "150",
		"variations": []map[string]interface{}{{"name": "Blue", "sku": "DOME-G", "price": "150"}},
	})
	assert.Equal(t, fiber.StatusConflict, r.status)

	r = s.do("POST", "/product/", admin, map[string]interface{}{
		"subcategory_id": subID, "name": "Bargain Tent", "price": "10", "discount_price": "20",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, r.status)

	r = s.do("GET", fmt.Sprintf("/category/%d", categoryID), "", nil)
	require.Equal(t, fiber.StatusOK, r.status)
	var detail struct {
		Slug          string                   `json:"slug"`
		Subcategories []map[string]interface{} `json:"subcategories"`
	}
	r.decode(t, &detail)
	assert.Equal(t, "outdoor-gear", detail.Slug)
	assert.Len(t, detail.Subcategories, 1)

	r = s.do("GET", fmt.Sprintf("/subcategory/%d", subID), "", nil)
	require.Equal(t, fiber.StatusOK, r.status)
	var subDetail struct {
		Category map[string]interface{}   `json:"category"`
		Products []map[string]interface{} `json:"products"`
	}
	r.decode(t, &subDetail)
	assert.Equal(t, "Outdoor Gear", subDetail.Category["name"])
	assert.Len(t, subDetail.Products, 1)

	r = s.do("PUT", fmt.Sprintf("/category/%d", categoryID), admin, map[string]interface{}{"name": "Camping", "description": nil})
	require.Equal(t, fiber.StatusOK, r.status)
	r.decode(t, &category)
	assert.Equal(t, "Camping", category["name"])
	assert.Equal(t, "outdoor-gear", category["slug"])
	assert.Equal(t, "All weather", category["description"], "null is treated as absent")

	r = s.do("PUT", fmt.Sprintf("/product/%d", productID), admin, map[string]interface{}{"stock_quantity": 5, "attributes": nil})
	require.Equal(t, fiber.StatusOK, r.status, string(r.body))
	product = nil
	r.decode(t, &product)
	assert.Equal(t, float64(5), product["stock_quantity"])
	assert.Equal(t, map[string]interface{}{"sleeps": float64(3)}, product["attributes"], "null attributes are treated as absent")

	assert.Equal(t, fiber.StatusNotFound, s.do("GET", "/product/999", "", nil).status)
	assert.Equal(t, fiber.StatusUnprocessableEntity, s.do("GET", "/product/abc", "", nil).status)

	r = s.do("DELETE", fmt.Sprintf("/category/%d", categoryID), admin, nil)
	assert.Equal(t, fiber.StatusNoContent, r.status)
	assert.Equal(t, fiber.StatusNotFound, s.do("GET", fmt.Sprintf("/product/%d", productID), "", nil).status, "cascade")
	assert.Equal(t, fiber.StatusNotFound, s.do("DELETE", fmt.Sprintf("/category/%d", categoryID), admin, nil).status)
}

func TestPagination(t *testing.T) {
	s := newTestServer(t, "")
	admin := s.login("admin@example.com", true)

	for i := 1; i <= 25; i++ {
		r := s.do("POST", "/category/", admin, map[string]interface{}{"name": fmt.Sprintf("Category %d", i)})
		require.Equal(t, fiber.StatusCreated, r.status)
	}

	tests := []struct {
		query     string
		wantItems int
		wantPage  int
	}{
		{query: "", wantItems: 10, wantPage: 1},
		{query: "?page=1&size=10", wantItems: 10, wantPage: 1},
		{query: "?page=3&size=10", wantItems: 5, wantPage: 3},
		{query: "?page=4&size=10", wantItems: 0, wantPage: 4},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := s.do("GET", "/category/"+tt.query, "", nil)
			require.Equal(t, fiber.StatusOK, r.status)

			var page struct {
				Items []map[string]interface{} `json:"items"`
				Total int64                    `json:"total"`
				Page  int                      `json:"page"`
				Size  int                      `json:"size"`
				Pages int                      `json:"pages"`
			}
			r.decode(t, &page)
			assert.Len(t, page.Items, tt.wantItems)
			assert.Equal(t, int64(25), page.Total)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, 10, page.Size)
			assert.Equal(t, 3, page.Pages)
		})
	}

	for _, q := range []string{"?page=0", "?size=0", "?size=-3", "?page=x"} {
		assert.Equal(t, fiber.StatusUnprocessableEntity, s.do("GET", "/category/"+q, "", nil).status, q)
	}

	r := s.do("GET", "/category/?size=500", "", nil)
	require.Equal(t, fiber.StatusOK, r.status)
	var clamped struct {
		Items []map[string]interface{} `json:"items"`
		Size  int                      `json:"size"`
		Pages int                      `json:"pages"`
	}
	r.decode(t, &clamped)
	assert.Len(t, clamped.Items, 25)
	assert.Equal(t, 100, clamped.Size)
	assert.Equal(t, 1, clamped.Pages)
}

func TestPrefixHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, "/api/v1")

	r := s.do("GET", "/api/v1/health", "", nil)
	require.Equal(t, fiber.StatusOK, r.status)
	var health dto.HealthResponse
	r.decode(t, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.DB)

	assert.Equal(t, fiber.StatusOK, s.do("GET", "/api/v1/category/", "", nil).status)
	assert.Equal(t, fiber.StatusNotFound, s.do("GET", "/category/", "", nil).status)

	r = s.do("GET", "/metrics", "", nil)
	require.Equal(t, fiber.StatusOK, r.status)
	assert.Contains(t, string(r.body), "http_requests_total")
}

func TestRequestTimeout(t *testing.T) {
	s := newTestServer(t, "", func(cfg *config.Config) {
		cfg.RequestTimeout = 50 * time.Millisecond
	})

	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	// Hold the only pooled connection so the list query cannot start.
	conn, err := sqlDB.Conn(context.Background())
	require.NoError(t, err)

	r := s.do("GET", "/category/", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, r.status)
	assert.Equal(t, services.ErrStorageTimeout.Error(), r.message(t))

	require.NoError(t, conn.Close())
	assert.Equal(t, fiber.StatusOK, s.do("GET", "/category/", "", nil).status)
}
