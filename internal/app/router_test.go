package app_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/linemk/pricedesk/internal/app"
	"github.com/linemk/pricedesk/internal/config"
	"github.com/linemk/pricedesk/internal/domain/models"
	security "github.com/linemk/pricedesk/internal/jwt-new"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "router-test-secret-router-test-secret"

func newTestApp(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{
		Env: "local",
		JWT: config.JWTConfig{Secret: testSecret, TokenTTL: 1440},
		Bootstrap: config.BootstrapConfig{
			AdminUsername: "admin",
			AdminPassword: "admin123",
		},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := app.New(log, cfg, sqlx.NewDb(db, "postgres"))
	return a.Router(), mock
}

func do(t *testing.T, h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func login(t *testing.T, h http.Handler, mock sqlmock.Sqlmock) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1 OR email = $1")).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "name", "email", "role", "created_at", "updated_at"}).
			AddRow(int64(1), "admin", string(hash), "Administrator", "", "admin", now, now))

	rr := do(t, h, http.MethodPost, "/auth/login", "", `{"identifier": "admin", "secret": "admin123"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Success bool        `json:"success"`
		Token   string      `json:"token"`
		User    models.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "admin", resp.User.Username)
	return resp.Token
}

func TestRouter_AdminLoginTokenCarriesRole(t *testing.T) {
	h, mock := newTestApp(t)

	token := login(t, h, mock)

	claims, err := security.ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, int64(1), claims.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_CreateThenSearchProduct(t *testing.T) {
	h, mock := newTestApp(t)
	token := login(t, h, mock)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)")).
		WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products")).
		WithArgs("Widget", "W1", int64(1), "10000", "", false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO product_prices")).
		WithArgs(int64(1), int64(1), "18000").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rr := do(t, h, http.MethodPost, "/products", token,
		`{"name":"Widget","sku":"W1","basePrice":10000,"categoryId":"1","marketplacePrices":{"1":18000}}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"success": true, "message": "product created successfully", "data": {"productId": 1}}`, rr.Body.String())

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (p.name ILIKE $1 OR p.sku ILIKE $1)")).
		WithArgs("%Widget%").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "sku", "category_id", "base_price", "description", "has_variants",
			"created_at", "updated_at", "category_name",
		}).AddRow(int64(1), "Widget", "W1", int64(1), "10000.00", "", false, now, now, "Elektronik"))

	rr = do(t, h, http.MethodGet, "/products?search=Widget", token, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := rr.Body.String()
	assert.True(t, gjson.Get(body, "success").Bool())
	assert.Equal(t, int64(1), gjson.Get(body, "data.#").Int(), "exactly one product expected")
	assert.Equal(t, "Widget", gjson.Get(body, "data.0.name").String())
	assert.Equal(t, "Elektronik", gjson.Get(body, "data.0.category_name").String())
	assert.Equal(t, "10000", gjson.Get(body, "data.0.base_price").String())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	h, _ := newTestApp(t)

	for _, target := range []string{"/products", "/categories", "/marketplaces", "/stores", "/pricing/suggest?basePrice=1"} {
		rr := do(t, h, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, target)
	}

	rr := do(t, h, http.MethodGet, "/products", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_LoginFailuresLookTheSame(t *testing.T) {
	h, mock := newTestApp(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()
	columns := []string{"id", "username", "password", "name", "email", "role", "created_at", "updated_at"}

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1 OR email = $1")).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(1), "admin", string(hash), "Administrator", "", "admin", now, now))
	wrong := do(t, h, http.MethodPost, "/auth/login", "", `{"identifier": "admin", "secret": "nope"}`)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1 OR email = $1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(columns))
	unknown := do(t, h, http.MethodPost, "/auth/login", "", `{"identifier": "ghost", "secret": "nope"}`)

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, wrong.Code, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestRouter_Healthz(t *testing.T) {
	h, mock := newTestApp(t)

	rr := do(t, h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet(), "liveness must not touch the database")
}
