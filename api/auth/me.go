package auth

import (
	"net/http"
	"opsdesk_server/api/middleware"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("Not logged in"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(user),
		gecho.Send(),
	)
}
