package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/teamcap/internal/api/handler"
	"github.com/daap14/teamcap/internal/auth"
	"github.com/daap14/teamcap/internal/user"
)

// ===== POST /api/auth =====

func TestAuthLogin_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	expires := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := &mockAuthService{
		loginFn: func(_ context.Context, username, password string) (*auth.Authentication, error) {
			assert.Equal(t, "ada", username)
			assert.Equal(t, "correct horse", password)
			return &auth.Authentication{ID: uuid.NewString(), UserID: userID, Token: "tok", ExpiresAt: &expires}, nil
		},
	}
	h := handler.NewAuthHandler(svc)

	req, w := makeChiRequest(http.MethodPost, "/api/auth", mustJSON(t, map[string]string{
		"username": "ada",
		"password": "correct horse",
	}), nil)
	h.Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "tok", data["token"])
	assert.Equal(t, userID, data["userId"])
	assert.Equal(t, "2026-01-02T03:04:05Z", data["expiresAt"])
}

func TestAuthLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	h := handler.NewAuthHandler(&mockAuthService{})

	req, w := makeChiRequest(http.MethodPost, "/api/auth", mustJSON(t, map[string]string{
		"username": "ada",
		"password": "wrong",
	}), nil)
	h.Login(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := parseEnvelope(t, w)
	errObj := env["error"].(map[string]interface{})
	assert.Equal(t, "User", errObj["domain"])
	assert.Equal(t, "UserNotFound", errObj["code"])
}

func TestAuthLogin_ValidationError(t *testing.T) {
	t.Parallel()

	h := handler.NewAuthHandler(&mockAuthService{})

	req, w := makeChiRequest(http.MethodPost, "/api/auth", mustJSON(t, map[string]string{}), nil)
	h.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errObj := parseEnvelope(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "ValidationError", errObj["code"])
	assert.Len(t, errObj["details"], 2)
}

func TestAuthLogin_InvalidJSON(t *testing.T) {
	t.Parallel()

	h := handler.NewAuthHandler(&mockAuthService{})

	req, w := makeChiRequest(http.MethodPost, "/api/auth", []byte("{not json"), nil)
	h.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidJSON", errorCode(t, w))
}

func TestAuthLogin_ServiceError(t *testing.T) {
	t.Parallel()

	h := handler.NewAuthHandler(&mockAuthService{
		loginFn: func(context.Context, string, string) (*auth.Authentication, error) {
			return nil, errors.New("db down")
		},
	})

	req, w := makeChiRequest(http.MethodPost, "/api/auth", mustJSON(t, map[string]string{
		"username": "ada",
		"password": "whatever1",
	}), nil)
	h.Login(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "LoginFailed", errorCode(t, w))
}

// ===== DELETE /api/auth =====

func TestAuthLogout_UsesCallerToken(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	var got string
	h := handler.NewAuthHandler(&mockAuthService{
		logoutFn: func(_ context.Context, token string) error {
			got = token
			return nil
		},
	})

	req, w := makeChiRequest(http.MethodDelete, "/api/auth", nil, nil)
	h.Logout(w, asUser(req, userID))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "token-"+userID, got)
	assert.Equal(t, "Logged out", parseEnvelope(t, w)["message"])
}

// ===== POST /api/auth/register =====

func TestAuthRegister_Success(t *testing.T) {
	t.Parallel()

	var got auth.Account
	h := handler.NewAuthHandler(&mockAuthService{
		registerFn: func(_ context.Context, a auth.Account) (*auth.Registration, error) {
			got = a
			return &auth.Registration{
				User:        sampleUser(uuid.NewString(), a.Username),
				BackupCodes: []string{"0123456789abcd", "fedcba98765432"},
			}, nil
		},
	})

	req, w := makeChiRequest(http.MethodPost, "/api/auth/register", mustJSON(t, map[string]string{
		"firstName": "<b>Ada</b>",
		"lastName":  "Lovelace",
		"username":  "ada",
		"password":  "analytical",
	}), nil)
	h.Register(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Ada", got.FirstName)
	assert.Equal(t, "analytical", got.Password)

	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["backupCodes"], 2)
	assert.Equal(t, false, data["restored"])
	u := data["user"].(map[string]interface{})
	assert.Equal(t, "ada", u["username"])
	assert.NotContains(t, u, "passwordHash")
}

func TestAuthRegister_UsernameTaken(t *testing.T) {
	t.Parallel()

	h := handler.NewAuthHandler(&mockAuthService{
		registerFn: func(context.Context, auth.Account) (*auth.Registration, error) {
			return nil, user.ErrUsernameTaken
		},
	})

	req, w := makeChiRequest(http.MethodPost, "/api/auth/register", mustJSON(t, map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"username":  "ada",
		"password":  "analytical",
	}), nil)
	h.Register(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "UsernameTaken", errorCode(t, w))
}

func TestAuthRegister_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{
			name:  "short password",
			body:  map[string]string{"firstName": "A", "lastName": "L", "username": "ada", "password": "short"},
			field: "password",
		},
		{
			name:  "username with symbols",
			body:  map[string]string{"firstName": "A", "lastName": "L", "username": "ada!", "password": "longenough"},
			field: "username",
		},
		{
			name:  "missing first name",
			body:  map[string]string{"lastName": "L", "username": "ada", "password": "longenough"},
			field: "firstName",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := handler.NewAuthHandler(&mockAuthService{})
			req, w := makeChiRequest(http.MethodPost, "/api/auth/register", mustJSON(t, tt.body), nil)
			h.Register(w, req)

			require.Equal(t, http.StatusBadRequest, w.Code)
			details := parseEnvelope(t, w)["error"].(map[string]interface{})["details"].([]interface{})
			require.Len(t, details, 1)
			assert.Equal(t, tt.field, details[0].(map[string]interface{})["field"])
		})
	}
}

// ===== DELETE /api/auth/register =====

func TestAuthUnregister(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	var got string
	h := handler.NewAuthHandler(&mockAuthService{
		unregisterFn: func(_ context.Context, id string) error {
			got = id
			return nil
		},
	})

	req, w := makeChiRequest(http.MethodDelete, "/api/auth/register", nil, nil)
	h.Unregister(w, asUser(req, userID))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, got)
}

func TestAuthUnregister_Failure(t *testing.T) {
	t.Parallel()

	h := handler.NewAuthHandler(&mockAuthService{
		unregisterFn: func(context.Context, string) error { return errors.New("boom") },
	})

	req, w := makeChiRequest(http.MethodDelete, "/api/auth/register", nil, nil)
	h.Unregister(w, asUser(req, uuid.NewString()))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "UserDeletionFailed", errorCode(t, w))
}
