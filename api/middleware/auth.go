package middleware

import (
	"context"
	"net/http"
	"opsdesk_server/lib"
	"opsdesk_server/structs"
	"opsdesk_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// Context keys for storing user data in request context
type contextKey string

const (
	UserContextKey   contextKey = "user"
	ClaimsContextKey contextKey = "claims"
)

// UserAuthMiddleware protects routes to only logged-in users. The token is
// parsed and the user resolved exactly once per request, handlers read both
// from the request context.
func (mw *Middleware) UserAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := lib.ExtractClaims(r, mw.authService.GetAccessTokenSecret())
		if err != nil {
			mw.logger.Warn("Failed to extract claims from request", gecho.Field("error", err))
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			return
		}

		blacklisted, err := mw.cacheService.IsTokenBlacklisted(claims.Jti)
		if err != nil {
			mw.logger.Error("Failed to check token blacklist", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
			gecho.InternalServerError(w, gecho.Send())
			return
		}
		if blacklisted {
			mw.logger.Warn("Blacklisted token used", gecho.Field("jti", claims.Jti), gecho.Field("user_id", claims.Sub))
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			return
		}

		user, err := mw.authService.GetUserByID(r.Context(), claims.Sub)
		if err != nil || user == nil {
			mw.logger.Warn("Token subject does not resolve to a user", gecho.Field("user_id", claims.Sub), gecho.Field("error", err))
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		ctx = context.WithValue(ctx, UserContextKey, user)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminAuthMiddleware protects routes to only admin users.
// Must be used after UserAuthMiddleware.
func (mw *Middleware) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaimsFromContext(r.Context())
		if !ok {
			mw.logger.Warn("Admin route hit without auth context")
			gecho.Forbidden(w, gecho.WithMessage("Access denied"), gecho.Send())
			return
		}

		if claims.Role != "admin" {
			mw.logger.Warn("Non-admin user attempted to access admin route",
				gecho.Field("user_id", claims.Sub),
				gecho.Field("role", claims.Role))
			gecho.Forbidden(w, gecho.WithMessage("Admin access required"), gecho.Send())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext is a helper function to extract the user from request context
func GetUserFromContext(ctx context.Context) (*tables.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*tables.User)
	return user, ok
}

// GetClaimsFromContext is a helper function to extract the claims from request context
func GetClaimsFromContext(ctx context.Context) (*structs.AuthClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.AuthClaims)
	return claims, ok
}
