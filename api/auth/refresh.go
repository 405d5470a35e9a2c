package auth

import (
	"net/http"
	"opsdesk_server/lib"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := lib.GetCookieValue(lib.RefreshCookieName, r)
	if err != nil {
		gecho.Unauthorized(w, gecho.WithMessage("No refresh token found"), gecho.Send())
		return
	}

	authResponse, err := arm.authService.RefreshAccessToken(r.Context(), refreshToken)
	if err != nil {
		arm.logger.Warn("Token refresh failed", gecho.Field("error", err))
		lib.ClearCookie(lib.AccessCookieName, w)
		lib.ClearCookie(lib.RefreshCookieName, w)
		gecho.Unauthorized(w, gecho.WithMessage("Invalid or expired refresh token"), gecho.Send())
		return
	}

	lib.SetCookie(lib.RefreshCookieName, authResponse.RefreshToken, arm.authService.GetRefreshTokenExpiration(), w)
	lib.SetCookie(lib.AccessCookieName, authResponse.AccessToken, arm.authService.GetAccessTokenExpiration(), w)

	gecho.Success(w,
		gecho.WithMessage("Token refreshed"),
		gecho.WithData(authResponse.User),
		gecho.Send(),
	)
}
