package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"megano/internal/config"
	"megano/internal/http/handlers"
	"megano/internal/repos"
	"megano/internal/services"
)

type testApp struct {
	app *fiber.App
	db  *sqlx.DB
	cfg config.Config
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:", MediaDir: t.TempDir(), PageSize: 20}
	db, err := repos.OpenDB(cfg.DBDSN, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	handlers.Mount(app, handlers.NewDeps(db, cfg, authSvc))
	return &testApp{app: app, db: db, cfg: cfg}
}

// call sends a JSON request, optionally with a session cookie, and returns
// the response with its body read.
func (a *testApp) call(t *testing.T, method, path string, body any, sid string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (a *testApp) signIn(t *testing.T, username string) string {
	t.Helper()
	resp, body := a.call(t, "POST", "/api/sign-in", map[string]string{"username": username, "password": "Passw0rd!"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	sid := cookie(resp, "sid")
	require.NotEmpty(t, sid)
	return sid
}

func cookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
