// Package auth issues guest session identities and guards the game routes.
// There are no accounts or passwords; a session token is just a signed
// (id, username) pair the game endpoints key their participant checks on.
package auth

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"simonduel/domain"
)

var (
	ErrMissingTokenStr          = "missing-token"
	ErrExpiredTokenStr          = "expired-token"
	ErrInvalidRequestFormatStr  = "bad-request-format"
	ErrInvalidUsernameFormatStr = "invalid-username-format"
	ErrUnknownStr               = "unknown-error"
)

var usernameFormat = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)

type sessionHandler struct {
	tokens       TokenManager
	cookieMaxAge time.Duration
	now          func() time.Time
	newID        func() string
}

func NewSessionHandler(tokens TokenManager, cookieMaxAge time.Duration) *sessionHandler {
	return &sessionHandler{
		tokens:       tokens,
		cookieMaxAge: cookieMaxAge,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// CreateSessionHandler mints a fresh player identity for a username.
func (sh *sessionHandler) CreateSessionHandler(ctx *gin.Context) {
	var body struct {
		Username string `json:"username"`
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ErrInvalidRequestFormatStr})
		return
	}

	if !usernameFormat.MatchString(body.Username) {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ErrInvalidUsernameFormatStr})
		return
	}

	identity := domain.Identity{ID: sh.newID(), Username: body.Username}
	token, err := sh.tokens.Generate(identity, sh.now())
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
		return
	}

	ctx.SetSameSite(http.SameSiteNoneMode)
	ctx.SetCookie("token", token, int(sh.cookieMaxAge.Seconds()), "/", "", true, true)
	ctx.JSON(http.StatusCreated, gin.H{
		"playerId": identity.ID,
		"username": identity.Username,
		"token":    token,
	})
}

// RequireAuthMiddleware verifies the session token and sets "id" and
// "username" on the request context. Requests with tampered tokens are held
// for trollTime before the response goes out.
func (sh *sessionHandler) RequireAuthMiddleware(trollTime time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie("token")
		if err != nil {
			if bearer := ctx.GetHeader("Authorization"); len(bearer) > 7 && bearer[:7] == "Bearer " {
				token = bearer[7:]
			}
		}
		if token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrMissingTokenStr})
			return
		}

		identity, err := sh.tokens.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidSigningAlg),
				errors.Is(err, domain.ErrInvalidTokenSignature),
				errors.Is(err, domain.ErrCorruptedToken):
				time.Sleep(trollTime)
				ctx.AbortWithStatus(http.StatusInternalServerError)
			case errors.Is(err, domain.ErrExpiredToken):
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrExpiredTokenStr})
			default:
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStr})
			}
			return
		}

		ctx.Set("id", identity.ID)
		ctx.Set("username", identity.Username)
		ctx.Next()
	}
}
