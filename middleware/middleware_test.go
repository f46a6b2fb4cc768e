package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"villapik/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, userID string, roles []string) string {
	t.Helper()
	claims := &Claims{
		Username: "tester",
		UserID:   userID,
		Role:     roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	require.NoError(t, err)
	return token
}

func TestAuthenticateSetsUserContext(t *testing.T) {
	var gotUserID string
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUserID, _ = r.Context().Value(globals.UserIDKey).(string)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u123", []string{"admin"}))
	rr := httptest.NewRecorder()

	handler(rr, req, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u123", gotUserID)
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler(rr, req, nil)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rr := httptest.NewRecorder()

	handler(rr, req, nil)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAdmin(t *testing.T) {
	var called bool
	handler := RequireAdmin(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u123", []string{"admin"}))
	rr := httptest.NewRecorder()
	handler(rr, req, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, called)
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	handler := RequireAdmin(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u456", []string{"user"}))
	rr := httptest.NewRecorder()
	handler(rr, req, nil)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}
