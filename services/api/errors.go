package api

import (
	"errors"
	"net/http"
	"xlinkfetcher/services/mcptransport"
	"xlinkfetcher/services/mirror"
	"xlinkfetcher/services/tools"
)

// statusFor maps domain errors to HTTP statuses, anything unrecognized is a
// server error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, tools.ErrMissingURL),
		errors.Is(err, tools.ErrUnknownTool),
		errors.Is(err, mirror.ErrInvalidURL),
		errors.Is(err, mirror.ErrUnsupportedDomain),
		errors.Is(err, mcptransport.ErrSessionNotFound):
		return http.StatusBadRequest
	case errors.Is(err, mirror.ErrNoContent):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	if errors.Is(err, mirror.ErrNoContent) {
		return "Tweet not found or could not be parsed"
	}
	return err.Error()
}
