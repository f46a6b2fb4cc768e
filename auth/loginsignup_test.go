package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"villapik/middleware"
	"villapik/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// These cases all fail before any database access.

func TestRegisterRejectsInvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{"))
	rr := httptest.NewRecorder()

	registerHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegisterRequiresUsernameAndPassword(t *testing.T) {
	for _, body := range []string{
		`{"password":"secret","key":"pik"}`,
		`{"username":"owner","key":"pik"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rr := httptest.NewRecorder()

		registerHandler(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
}

func TestRegisterRejectsWrongSecretKey(t *testing.T) {
	body := `{"username":"owner","password":"secret","key":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rr := httptest.NewRecorder()

	registerHandler(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func stubRefreshStore(t *testing.T, user models.User, findErr error) (lookedUp *string, stored *string) {
	t.Helper()
	origFind, origStore := findUserByRefresh, storeRefreshToken
	var lookup, rotated string
	findUserByRefresh = func(_ context.Context, hashedToken string) (models.User, error) {
		lookup = hashedToken
		return user, findErr
	}
	storeRefreshToken = func(_ context.Context, userID, hashedToken string, expiry time.Time) error {
		rotated = hashedToken
		return nil
	}
	t.Cleanup(func() {
		findUserByRefresh, storeRefreshToken = origFind, origStore
	})
	return &lookup, &rotated
}

func TestRefreshRequiresToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token/refresh", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	refreshTokenHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	lookup, _ := stubRefreshStore(t, models.User{}, mongo.ErrNoDocuments)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/token/refresh", strings.NewReader(`{"refreshToken":"bogus"}`))
	rr := httptest.NewRecorder()

	refreshTokenHandler(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	// the handler compares hashes, never raw tokens
	assert.Equal(t, hashToken("bogus"), *lookup)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	user := models.User{
		UserID:        "u1",
		Username:      "owner",
		Role:          []string{"admin"},
		RefreshExpiry: time.Now().Add(-time.Hour),
	}
	stubRefreshStore(t, user, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/token/refresh", strings.NewReader(`{"refreshToken":"old"}`))
	rr := httptest.NewRecorder()

	refreshTokenHandler(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	user := models.User{
		UserID:        "u1",
		Username:      "owner",
		Role:          []string{"admin"},
		RefreshExpiry: time.Now().Add(time.Hour),
	}
	_, rotated := stubRefreshStore(t, user, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/token/refresh", strings.NewReader(`{"refreshToken":"current"}`))
	rr := httptest.NewRecorder()

	refreshTokenHandler(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data["token"])
	assert.NotEmpty(t, resp.Data["refreshToken"])
	assert.NotEqual(t, "current", resp.Data["refreshToken"])

	// a new hash was written back, not the presented one
	assert.NotEmpty(t, *rotated)
	assert.NotEqual(t, hashToken("current"), *rotated)

	claims, err := middleware.ValidateJWT(resp.Data["token"])
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestLogoutRejectsMissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rr := httptest.NewRecorder()

	logoutUserHandler(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
