package auth

import (
	"errors"
	"net/http"
	"opsdesk_server/lib"
	"opsdesk_server/structs"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleRegister(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.RegisterRequest](r)
	if err != nil {
		arm.logger.Warn("Failed to extract request body", gecho.Field("error", err))

		var ve *lib.ValidationError
		if errors.As(err, &ve) {
			gecho.BadRequest(w, gecho.WithMessage("Validation failed"), gecho.WithData(ve.Errors), gecho.Send())
			return
		}

		gecho.BadRequest(w, gecho.WithMessage("Please check your registration information and try again"), gecho.Send())
		return
	}

	user, err := arm.authService.Register(r.Context(), body)
	if err != nil {
		if lib.IsConflict(err) {
			gecho.Conflict(w, gecho.WithMessage("An account with this username or email already exists"), gecho.Send())
			return
		}

		arm.logger.Error("Registration failed", gecho.Field("error", err))
		gecho.InternalServerError(w, gecho.WithMessage("Unable to complete registration. Please try again"), gecho.Send())
		return
	}

	accessToken, err := arm.authService.GenerateAccessToken(user)
	if err != nil {
		arm.logger.Error("Failed to generate access token", gecho.Field("error", err))
		gecho.InternalServerError(w, gecho.WithMessage("Account created, please log in"), gecho.Send())
		return
	}

	refreshToken, err := arm.authService.GenerateRefreshToken(user)
	if err != nil {
		arm.logger.Error("Failed to generate refresh token", gecho.Field("error", err))
		gecho.InternalServerError(w, gecho.WithMessage("Account created, please log in"), gecho.Send())
		return
	}

	lib.SetCookie(lib.RefreshCookieName, refreshToken, arm.authService.GetRefreshTokenExpiration(), w)
	lib.SetCookie(lib.AccessCookieName, accessToken, arm.authService.GetAccessTokenExpiration(), w)

	gecho.Success(w,
		gecho.WithMessage("Registration successful"),
		gecho.WithData(user),
		gecho.Send(),
	)
}
