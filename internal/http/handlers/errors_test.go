package handlers_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandlerHidesInternals(t *testing.T) {
	a := newTestApp(t)
	a.app.Get("/api/boom", func(c *fiber.Ctx) error {
		return errors.New("sql: no such table: secret_users")
	})
	a.app.Get("/api/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	logs := captureLogs(t)
	resp, body := a.call(t, "GET", "/api/boom", nil, "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Something went wrong. Please try again."}`, string(body))
	assert.NotContains(t, string(body), "secret_users")

	entry := logs.find(t, "server.error")
	assert.Equal(t, "error", entry["level"])
	assert.Contains(t, entry["err"], "secret_users", "details stay in the log")

	resp, body = a.call(t, "GET", "/api/teapot", nil, "")
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
	assert.JSONEq(t, `{"error":"short and stout"}`, string(body))

	resp, _ = a.call(t, "GET", "/api/nothing-here", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

type logLines struct{ buf *bytes.Buffer }

// captureLogs redirects the standard logger for the duration of the test.
func captureLogs(t *testing.T) *logLines {
	t.Helper()
	buf := &bytes.Buffer{}
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &logLines{buf: buf}
}

func (l *logLines) entries() []map[string]any {
	var out []map[string]any
	sc := bufio.NewScanner(strings.NewReader(l.buf.String()))
	for sc.Scan() {
		var m map[string]any
		if json.Unmarshal(sc.Bytes(), &m) == nil {
			out = append(out, m)
		}
	}
	return out
}

func (l *logLines) find(t *testing.T, action string) map[string]any {
	t.Helper()
	for _, e := range l.entries() {
		if e["action"] == action {
			return e
		}
	}
	require.Failf(t, "log entry missing", "no %q entry in:\n%s", action, l.buf.String())
	return nil
}

func TestAuthEventsAreLogged(t *testing.T) {
	a := newTestApp(t)
	logs := captureLogs(t)

	_, _ = a.call(t, "POST", "/api/sign-in", map[string]string{"username": "alice", "password": "bad"}, "")
	fail := logs.find(t, "auth.sign_in.fail")
	assert.Equal(t, "warn", fail["level"])
	assert.Equal(t, "/api/sign-in", fail["path"])
	assert.NotEmpty(t, fail["req_id"])
	assert.NotContains(t, logs.buf.String(), `"bad"`, "passwords are never logged")

	a.signIn(t, "alice")
	ok := logs.find(t, "auth.sign_in")
	assert.Equal(t, "audit", ok["level"])
	assert.EqualValues(t, 2, ok["user_id"])
}

func TestOrderMismatchIsAudited(t *testing.T) {
	a := newTestApp(t)
	sid := a.signIn(t, "alice")
	logs := captureLogs(t)

	resp, _ := a.call(t, "POST", "/api/orders", []map[string]any{{"id": 1, "price": "1.00", "count": 1}}, sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	e := logs.find(t, "order.create")
	fields, _ := e["fields"].(map[string]any)
	require.NotNil(t, fields)
	assert.Equal(t, "1200.00", fields["server_total"])
	assert.Equal(t, "1.00", fields["client_total"])
	assert.Equal(t, true, fields["mismatch"])
}

func TestAdminDenialIsLogged(t *testing.T) {
	a := newTestApp(t)
	sid := a.signIn(t, "alice")
	logs := captureLogs(t)

	resp, _ := a.call(t, "POST", "/api/admin/orders/1/cancel", nil, sid)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	e := logs.find(t, "access.denied.admin")
	assert.Equal(t, "warn", e["level"])
	assert.EqualValues(t, 2, e["user_id"])
}

func TestLogEntriesCarryTargetAndSession(t *testing.T) {
	a := newTestApp(t)
	sid := a.signIn(t, "alice")
	_, body := a.call(t, "POST", "/api/orders", []map[string]any{{"id": 2, "price": "199.99", "count": 1}}, sid)
	id := decode[struct {
		OrderID int64 `json:"orderId"`
	}](t, body).OrderID

	logs := captureLogs(t)
	resp, _ := a.call(t, "POST", "/api/payment/"+itoa(id), validCard(), sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	e := logs.find(t, "order.pay")
	assert.Equal(t, "/api/payment/:id", e["route"])
	assert.Equal(t, map[string]any{"kind": "order", "id": float64(id)}, e["target"])
	tag, _ := e["session"].(string)
	assert.Len(t, tag, 12)
	assert.NotContains(t, logs.buf.String(), sid, "the session cookie is never logged")

	_, _ = a.call(t, "POST", "/api/basket", map[string]int{"id": 1}, sid)
	add := logs.find(t, "basket.add")
	assert.Equal(t, tag, add["session"], "one session, one tag")
	assert.Nil(t, add["target"])
}
