package lib

import (
	"net/http"
	"net/http/httptest"
	"opsdesk_server/structs"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClaims() *structs.AuthClaims {
	now := time.Now().Truncate(time.Second)
	return &structs.AuthClaims{
		Sub:   uuid.New(),
		Email: "owner@example.com",
		Role:  "admin",
		Iat:   now,
		Exp:   now.Add(15 * time.Minute),
		Jti:   uuid.New(),
	}
}

func TestSignAndParseToken(t *testing.T) {
	claims := testClaims()
	secret := "test-secret"

	tokenStr, err := SignClaims(claims, secret)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	parsed, err := ParseToken(tokenStr, secret)
	require.NoError(t, err)

	assert.Equal(t, claims.Sub, parsed.Sub)
	assert.Equal(t, claims.Email, parsed.Email)
	assert.Equal(t, claims.Role, parsed.Role)
	assert.Equal(t, claims.Jti, parsed.Jti)
	assert.True(t, claims.Iat.Equal(parsed.Iat))
	assert.True(t, claims.Exp.Equal(parsed.Exp))
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tokenStr, err := SignClaims(testClaims(), "right-secret")
	require.NoError(t, err)

	_, err = ParseToken(tokenStr, "wrong-secret")
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	claims := testClaims()
	claims.Iat = time.Now().Add(-time.Hour)
	claims.Exp = time.Now().Add(-30 * time.Minute)

	tokenStr, err := SignClaims(claims, "test-secret")
	require.NoError(t, err)

	_, err = ParseToken(tokenStr, "test-secret")
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token", "test-secret")
	assert.Error(t, err)
}

func TestExtractClaims(t *testing.T) {
	claims := testClaims()
	secret := "test-secret"

	tokenStr, err := SignClaims(claims, secret)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.AddCookie(&http.Cookie{Name: AccessCookieName, Value: tokenStr})

	extracted, err := ExtractClaims(r, secret)
	require.NoError(t, err)
	assert.Equal(t, claims.Sub, extracted.Sub)
}

func TestExtractClaimsMissingCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/me", nil)

	_, err := ExtractClaims(r, "test-secret")
	assert.Error(t, err)
}
