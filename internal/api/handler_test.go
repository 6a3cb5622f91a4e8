package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medsales/m/internal/config"
	"medsales/m/internal/database"
	"medsales/m/internal/export"
	"medsales/m/internal/migrations"
	"medsales/m/internal/service"
	"medsales/m/internal/session"
	"medsales/m/internal/store"
)

type testApp struct {
	router  http.Handler
	svc     *service.Service
	logFile string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()
	db, err := database.Connect(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(ctx, db))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	now := time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC)
	svc := service.New(store.New(db), logger, service.Options{Mode: config.ModeLegacy, Now: func() time.Time { return now }})
	_, err = svc.EnsureAdmin(ctx, "admin", "secret123")
	require.NoError(t, err)
	_, err = svc.AddUser(ctx, service.UserInput{Username: "clerk", Password: "secret123", ConfirmPassword: "secret123"})
	require.NoError(t, err)

	logFile := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(logFile, []byte("one\ntwo\nthree\n"), 0o644))

	sessions := session.NewManager(session.NewMemoryStore(), "test-secret", time.Hour)
	h := New(svc, sessions, logger, logFile)
	return &testApp{router: h.Router(), svc: svc, logFile: logFile}
}

func (a *testApp) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(t *testing.T, username string) *http.Cookie {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/login", map[string]string{"username": username, "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestPublicRoutes(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["authenticated"])

	rec = app.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGateRedirectsAnonymousWithNotice(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/medicines", "/dashboard", "/reports/financial", "/logout"} {
		rec := app.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	}

	rec := app.do(t, http.MethodPost, "/sales", map[string]any{"medicine_id": 1, "quantity": 1})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	flash := cookieNamed(rec, flashCookie)
	require.NotNil(t, flash)

	rec = app.do(t, http.MethodGet, "/login", nil, flash)
	assert.Equal(t, loginNotice, decode(t, rec)["flash"])

	sales, err := app.svc.ListSales(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/login", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodPost, "/login", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = app.do(t, http.MethodPost, "/login", map[string]string{"username": "admin", "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	assert.NotContains(t, rec.Body.String(), "password_hash")

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	app.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "clerk")

	rec := app.do(t, http.MethodGet, "/logout", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = app.do(t, http.MethodGet, "/medicines", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestSaleAndReturnFlow(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "clerk")

	rec := app.do(t, http.MethodPost, "/medicines", map[string]any{"name": "Aspirin", "price": "10.00", "stock": 100}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	medID := decode(t, rec)["id"]

	rec = app.do(t, http.MethodPost, "/sales", map[string]any{"medicine_id": medID, "quantity": 20, "sale_date": "2024-01-05"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sale := decode(t, rec)
	assert.Equal(t, "200", sale["total_price"])

	rec = app.do(t, http.MethodPost, "/sales", map[string]any{"medicine_id": medID, "quantity": 500}, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NotNil(t, cookieNamed(rec, flashCookie))

	rec = app.do(t, http.MethodPost, "/sales", map[string]any{"medicine_id": 999, "quantity": 1}, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodPost, "/sales", map[string]any{"medicine_id": medID, "quantity": 0}, cookie)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	fields := decode(t, rec)["fields"].(map[string]any)
	assert.Contains(t, fields, "quantity")


	rec = app.do(t, http.MethodPost, "/returns", map[string]any{"sale_id": sale["id"], "quantity": 5, "return_date": "2024-01-06"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ret := decode(t, rec)
	assert.Equal(t, "50", ret["refund"])

	rec = app.do(t, http.MethodPost, "/returns", map[string]any{"sale_id": sale["id"], "quantity": 20}, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(t, http.MethodGet, "/reports/financial/daily?from=2024-01-06", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-01-06", rows[0]["date"])
	assert.Equal(t, "-66.67", rows[0]["net_profit"])

	rec = app.do(t, http.MethodGet, "/reports/inventory", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var lines []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lines))
	require.Len(t, lines, 1)
	assert.EqualValues(t, 85, lines[0]["stock"])
	assert.EqualValues(t, 0, lines[0]["drift"])

	rec = app.do(t, http.MethodGet, "/reports/financial/daily?from=yesterday", nil, cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMalformedInputIsValidationError(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "clerk")

	rec := app.do(t, http.MethodPost, "/medicines", map[string]any{"name": "Aspirin", "price": "10.00", "stock": 100}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	medID := decode(t, rec)["id"]

	cases := []struct {
		name  string
		body  any
		field string
		msg   string
	}{
		{"bad date", map[string]any{"medicine_id": medID, "quantity": 1, "sale_date": "05/01/2024"}, "sale_date", "must be a date in YYYY-MM-DD format"},
		{"numeric date", map[string]any{"medicine_id": medID, "quantity": 1, "sale_date": 20240105}, "sale_date", "must be a date in YYYY-MM-DD format"},
		{"text quantity", map[string]any{"medicine_id": medID, "quantity": "abc"}, "quantity", "must be a whole number"},
		{"unknown field", map[string]any{"medicine": medID, "quantity": 1}, "medicine", "is not a known field"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, "/sales", tc.body, cookie)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			fields := decode(t, rec)["fields"].(map[string]any)
			assert.Equal(t, tc.msg, fields[tc.field])
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader("{not json"))
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	app.router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, decode(t, rr)["fields"], "body")

	sales, err := app.svc.ListSales(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestExports(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "clerk")

	for _, path := range []string{"/reports/financial/export", "/reports/sales/export"} {
		rec := app.do(t, http.MethodGet, path, nil, cookie)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"), path)
	}
}

func TestAdminOnlyRoutes(t *testing.T) {
	app := newTestApp(t)
	clerk := app.login(t, "clerk")
	admin := app.login(t, "admin")

	newUser := map[string]any{"username": "nurse", "password": "secret123", "confirm_password": "secret123"}

	rec := app.do(t, http.MethodPost, "/users", newUser, clerk)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = app.do(t, http.MethodGet, "/logs", nil, clerk)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodPost, "/users", newUser, admin)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/users", nil, clerk)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 3)

	rec = app.do(t, http.MethodGet, "/logs?lines=2", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"two", "three"}, decode(t, rec)["lines"])
}
