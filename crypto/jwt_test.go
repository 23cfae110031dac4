package crypto

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simonduel/domain"
)

var (
	testKey      = "test-secret-key"
	testIdentity = domain.Identity{ID: "7e2f7c1a-9c1e-4f9e-a8d3-0b1f1d2e3c4d", Username: "alice_01"}
	testTime     = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

func TestJWTManager_GenerateCarriesClaims(t *testing.T) {
	t.Parallel()
	manager := NewJWTManager(testKey, time.Hour)

	token, err := manager.Generate(testIdentity, testTime)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var claims struct {
		Id       string `json:"id"`
		Username string `json:"username"`
		Exp      int64  `json:"exp"`
	}
	require.NoError(t, json.Unmarshal(payload, &claims))
	assert.Equal(t, testIdentity.ID, claims.Id)
	assert.Equal(t, testIdentity.Username, claims.Username)
	assert.Equal(t, testTime.Add(time.Hour).Unix(), claims.Exp)
}

func TestJWTManager_VerifyRoundtrip(t *testing.T) {
	t.Parallel()
	manager := NewJWTManager(testKey, time.Hour)

	token, err := manager.Generate(testIdentity, time.Now())
	require.NoError(t, err)

	identity, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, identity)
}

func TestJWTManager_VerifyExpired(t *testing.T) {
	t.Parallel()
	manager := NewJWTManager(testKey, time.Hour)

	token, err := manager.Generate(testIdentity, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)
}

func TestJWTManager_VerifyWrongKey(t *testing.T) {
	t.Parallel()
	token, err := NewJWTManager("some-other-key", time.Hour).Generate(testIdentity, time.Now())
	require.NoError(t, err)

	_, err = NewJWTManager(testKey, time.Hour).Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidTokenSignature)
}

func TestJWTManager_VerifyGarbage(t *testing.T) {
	t.Parallel()
	manager := NewJWTManager(testKey, time.Hour)

	_, err := manager.Verify("definitely.not.a-jwt")
	assert.ErrorIs(t, err, domain.ErrCorruptedToken)
}

func TestJWTManager_VerifyRejectsForeignAlg(t *testing.T) {
	t.Parallel()
	manager := NewJWTManager(testKey, time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":       testIdentity.ID,
		"username": testIdentity.Username,
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidSigningAlg)
}
