package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	_, app, _ := setupTestServer(t)

	t.Run("Success", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/users", "", map[string]string{
			"username":   "newuser",
			"email":      "newuser@example.com",
			"password":   "SecurePass12!@",
			"first_name": "New",
			"last_name":  "User",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "newuser", body["username"])
		// Password hash must never appear in responses.
		assert.NotContains(t, body, "password")
	})

	t.Run("Weak Password Keyed By Field", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/users", "", map[string]string{
			"username": "weakling",
			"email":    "weak@example.com",
			"password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		fields, ok := body["fields"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, fields, "password")
	})

	t.Run("Duplicate Username", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/users", "", map[string]string{
			"username": "newuser",
			"email":    "other@example.com",
			"password": "SecurePass12!@",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		fields, ok := body["fields"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, fields, "username")
	})
}

func TestTokenPair(t *testing.T) {
	_, app, _ := setupTestServer(t)

	registerAndLogin(t, app, "tokenuser")

	t.Run("Obtain Pair", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/token", "", map[string]string{
			"username": "tokenuser",
			"password": "SecurePass12!@",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["access"])
		assert.NotEmpty(t, body["refresh"])
	})

	t.Run("Wrong Password", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/token", "", map[string]string{
			"username": "tokenuser",
			"password": "WrongPass12!@",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Unknown User Same Error", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/token", "", map[string]string{
			"username": "ghost",
			"password": "SecurePass12!@",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Refresh Produces New Access", func(t *testing.T) {
		_, body := doJSON(t, app, http.MethodPost, "/api/token", "", map[string]string{
			"username": "tokenuser",
			"password": "SecurePass12!@",
		})
		refresh := body["refresh"].(string)

		resp, body := doJSON(t, app, http.MethodPost, "/api/token/refresh", "", map[string]string{
			"refresh": refresh,
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["access"])
	})

	t.Run("Access Token Rejected As Refresh", func(t *testing.T) {
		_, body := doJSON(t, app, http.MethodPost, "/api/token", "", map[string]string{
			"username": "tokenuser",
			"password": "SecurePass12!@",
		})
		access := body["access"].(string)

		resp, _ := doJSON(t, app, http.MethodPost, "/api/token/refresh", "", map[string]string{
			"refresh": access,
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Refresh Token Rejected As Access", func(t *testing.T) {
		_, body := doJSON(t, app, http.MethodPost, "/api/token", "", map[string]string{
			"username": "tokenuser",
			"password": "SecurePass12!@",
		})
		refresh := body["refresh"].(string)

		resp, _ := doJSON(t, app, http.MethodGet, "/api/users/me", refresh, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestGetMyProfile(t *testing.T) {
	_, app, _ := setupTestServer(t)

	token := registerAndLogin(t, app, "profileuser")

	t.Run("Authenticated", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "profileuser", body["username"])
	})

	t.Run("Anonymous", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/users/me", "not.a.jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
