package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInAndOut(t *testing.T) {
	a := newTestApp(t)
	sid := a.signIn(t, "alice")

	resp, body := a.call(t, "GET", "/api/profile", nil, sid)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"fullName":"Alice Smith"`)

	resp, _ = a.call(t, "POST", "/api/sign-out", nil, sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = a.call(t, "GET", "/api/profile", nil, sid)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignInWrongPassword(t *testing.T) {
	a := newTestApp(t)
	resp, body := a.call(t, "POST", "/api/sign-in", map[string]string{"username": "alice", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotContains(t, string(body), "bcrypt")

	resp, _ = a.call(t, "POST", "/api/sign-in", map[string]string{"username": "ghost", "password": "Passw0rd!"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignInThrottled(t *testing.T) {
	a := newTestApp(t)
	creds := map[string]string{"username": "alice", "password": "wrong"}
	for i := 0; i < 5; i++ {
		resp, _ := a.call(t, "POST", "/api/sign-in", creds, "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "attempt %d", i+1)
	}
	resp, _ := a.call(t, "POST", "/api/sign-in", creds, "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestSignUp(t *testing.T) {
	a := newTestApp(t)
	resp, body := a.call(t, "POST", "/api/sign-up", map[string]string{
		"name": "Bob Stone", "username": "bob", "password": "Str0ng!pw",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	sid := cookie(resp, "sid")
	require.NotEmpty(t, sid)

	_, body = a.call(t, "GET", "/api/profile", nil, sid)
	assert.Contains(t, string(body), `"fullName":"Bob Stone"`)

	resp, _ = a.call(t, "POST", "/api/sign-up", map[string]string{
		"name": "Other Bob", "username": "bob", "password": "Str0ng!pw",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = a.call(t, "POST", "/api/sign-up", map[string]string{
		"username": "has space", "password": "short",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs := decode[struct {
		Errors map[string]string `json:"errors"`
	}](t, body)
	assert.Contains(t, errs.Errors, "username")
	assert.Contains(t, errs.Errors, "password")
}
