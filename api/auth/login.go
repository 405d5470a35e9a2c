package auth

import (
	"context"
	"net/http"
	"opsdesk_server/lib"
	"opsdesk_server/structs"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AuthRequest](r)
	if err != nil {
		arm.logger.Warn("Failed to extract request body", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Please check your login information and try again"), gecho.Send())
		return
	}

	user, err := arm.authService.Login(r.Context(), body)
	if err != nil {
		arm.logger.Warn("Login failed", gecho.Field("error", err))
		gecho.Unauthorized(w, gecho.WithMessage("Invalid credentials"), gecho.Send())
		return
	}

	accessToken, err := arm.authService.GenerateAccessToken(user)
	if err != nil {
		arm.logger.Error("Failed to generate access token", gecho.Field("error", err))
		gecho.InternalServerError(w, gecho.WithMessage("Unable to complete login. Please try again"), gecho.Send())
		return
	}

	refreshToken, err := arm.authService.GenerateRefreshToken(user)
	if err != nil {
		arm.logger.Error("Failed to generate refresh token", gecho.Field("error", err))
		gecho.InternalServerError(w, gecho.WithMessage("Unable to complete login. Please try again"), gecho.Send())
		return
	}

	lib.SetCookie(lib.RefreshCookieName, refreshToken, arm.authService.GetRefreshTokenExpiration(), w)
	lib.SetCookie(lib.AccessCookieName, accessToken, arm.authService.GetAccessTokenExpiration(), w)

	// Stamp last login asynchronously, detached from the request context
	go func() {
		if err := arm.authService.UpdateLastLogin(context.Background(), user.Id); err != nil {
			arm.logger.Error("Failed to update last login", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		}
	}()

	gecho.Success(w,
		gecho.WithMessage("Login successful"),
		gecho.WithData(user),
		gecho.Send(),
	)
}
