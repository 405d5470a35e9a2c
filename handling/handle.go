package handling

import (
	"errors"
	"net/http"
	"opsdesk_server/lib"

	"github.com/MonkyMars/gecho"
)

// HandleError logs err and writes the status code its classification maps
// to: 404 for missing rows, 409 for constraint conflicts, 400 for
// validation failures, 500 for everything else.
// HandleBodyError writes a 400 for request body decode or validation
// failures, with per-field messages when validation produced them.
func HandleBodyError(err error, logger *gecho.Logger, w http.ResponseWriter) error {
	logger.Warn("Failed to extract and validate request body", gecho.Field("error", err))

	var ve *lib.ValidationError
	if errors.As(err, &ve) {
		return gecho.BadRequest(w, gecho.WithMessage("Validation failed"), gecho.WithData(ve.Errors)).Send()
	}
	return gecho.BadRequest(w, gecho.WithMessage("Invalid request body")).Send()
}

func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	var ve *lib.ValidationError
	if errors.As(err, &ve) {
		return gecho.BadRequest(w, gecho.WithMessage("Validation failed"), gecho.WithData(ve.Errors)).Send()
	}

	switch {
	case errors.Is(err, lib.ErrNotFound):
		return gecho.NotFound(w, gecho.WithMessage(msg)).Send()
	case errors.Is(err, lib.ErrConflict):
		logger.Warn("Conflict", gecho.Field("error", err), gecho.Field("msg", msg))
		return gecho.Conflict(w, gecho.WithMessage(msg)).Send()
	default:
		logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))
		return gecho.InternalServerError(w).Send()
	}
}
