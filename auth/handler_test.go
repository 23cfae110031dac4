package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simonduel/crypto"
	"simonduel/domain"
)

func mustIdentity(id string) domain.Identity {
	return domain.Identity{ID: id, Username: "alice_01"}
}

func newSessionRouter(t *testing.T) (*gin.Engine, *sessionHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := crypto.NewJWTManager("test-key", time.Hour)
	sh := NewSessionHandler(tokens, time.Hour)

	r := gin.New()
	r.POST("/session", sh.CreateSessionHandler)
	return r, sh
}

func postSession(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateSessionHandler(t *testing.T) {
	t.Parallel()
	r, _ := newSessionRouter(t)

	w := postSession(r, `{"username":"alice_01"}`)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		PlayerID string `json:"playerId"`
		Username string `json:"username"`
		Token    string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.PlayerID)
	assert.Equal(t, "alice_01", resp.Username)
	assert.NotEmpty(t, resp.Token)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, resp.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCreateSessionHandler_FreshIdentityPerCall(t *testing.T) {
	t.Parallel()
	r, _ := newSessionRouter(t)

	first := postSession(r, `{"username":"alice_01"}`)
	second := postSession(r, `{"username":"alice_01"}`)
	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, http.StatusCreated, second.Code)

	var a, b struct {
		PlayerID string `json:"playerId"`
	}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.NotEqual(t, a.PlayerID, b.PlayerID, "the same username never shares an identity")
}

func TestCreateSessionHandler_Rejections(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc     string
		body     string
		wantCode string
	}{
		{desc: "too short", body: `{"username":"ab"}`, wantCode: ErrInvalidUsernameFormatStr},
		{desc: "too long", body: `{"username":"abcdefghijklmnopqrstu"}`, wantCode: ErrInvalidUsernameFormatStr},
		{desc: "uppercase", body: `{"username":"Alice"}`, wantCode: ErrInvalidUsernameFormatStr},
		{desc: "spaces", body: `{"username":"al ice"}`, wantCode: ErrInvalidUsernameFormatStr},
		{desc: "empty", body: `{"username":""}`, wantCode: ErrInvalidUsernameFormatStr},
		{desc: "malformed json", body: `{"username":`, wantCode: ErrInvalidRequestFormatStr},
	}

	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			r, _ := newSessionRouter(t)

			w := postSession(r, tC.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tC.wantCode, resp.Error)
		})
	}
}

func newGuardedRouter(t *testing.T, tokens TokenManager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sh := NewSessionHandler(tokens, time.Hour)
	r := gin.New()
	r.GET("/whoami", sh.RequireAuthMiddleware(0), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"id": ctx.GetString("id"), "username": ctx.GetString("username")})
	})
	return r
}

func TestRequireAuthMiddleware(t *testing.T) {
	t.Parallel()
	tokens := crypto.NewJWTManager("test-key", time.Hour)
	r := newGuardedRouter(t, tokens)

	sessionRouter, _ := newSessionRouter(t)
	created := postSession(sessionRouter, `{"username":"alice_01"}`)
	require.Equal(t, http.StatusCreated, created.Code)
	var session struct {
		PlayerID string `json:"playerId"`
		Token    string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &session))

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), ErrMissingTokenStr)
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+session.Token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, session.PlayerID, resp.ID)
		assert.Equal(t, "alice_01", resp.Username)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: session.Token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := tokens.Generate(
			mustIdentity(session.PlayerID), time.Now().Add(-2*time.Hour))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+expired)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), ErrExpiredTokenStr)
	})

	t.Run("tampered token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+session.Token+"x")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, w.Body.String(), "tampered tokens get no hint back")
	})

	t.Run("foreign key", func(t *testing.T) {
		foreign, err := crypto.NewJWTManager("other-key", time.Hour).
			Generate(mustIdentity(session.PlayerID), time.Now())
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+foreign)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
