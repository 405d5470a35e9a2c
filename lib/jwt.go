package lib

import (
	"fmt"
	"net/http"
	"opsdesk_server/structs"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Cookie names used for the auth token pair and CSRF double-submit token
const (
	AccessCookieName  = "opsdesk_access_token"
	RefreshCookieName = "opsdesk_refresh_token"
	CSRFCookieName    = "opsdesk_csrf_token"
)

// ParseToken parses and validates a JWT token string and returns the claims
func ParseToken(tokenStr string, secret string) (*structs.AuthClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrInvalidKey
	}

	subStr, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid sub claim")
	}
	sub, err := uuid.Parse(subStr)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID in sub claim: %w", err)
	}

	email, ok := claims["email"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid email claim")
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid role claim")
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid iat claim")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid exp claim")
	}

	jtiStr, ok := claims["jti"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid jti claim")
	}
	jti, err := uuid.Parse(jtiStr)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID in jti claim: %w", err)
	}

	return &structs.AuthClaims{
		Sub:   sub,
		Email: email,
		Role:  role,
		Iat:   time.Unix(int64(iat), 0),
		Exp:   time.Unix(int64(exp), 0),
		Jti:   jti,
	}, nil
}

// SignClaims serializes claims into a signed HS256 token string
func SignClaims(claims *structs.AuthClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   claims.Sub.String(),
		"email": claims.Email,
		"role":  claims.Role,
		"iat":   claims.Iat.Unix(),
		"exp":   claims.Exp.Unix(),
		"jti":   claims.Jti.String(),
	})
	return token.SignedString([]byte(secret))
}

// ExtractClaims reads the access token cookie and returns its parsed claims
func ExtractClaims(r *http.Request, secret string) (*structs.AuthClaims, error) {
	accessToken, err := GetCookieValue(AccessCookieName, r)
	if err != nil {
		return nil, err
	}

	claims, err := ParseToken(accessToken, secret)
	if err != nil {
		return nil, err
	}

	return claims, nil
}
