package analyses

import (
	"errors"
	"net/http"
)

// Domain errors for analysis operations.
var (
	ErrNotFound          = errors.New("analysis artifact not found")
	ErrDuplicate         = errors.New("analysis artifact already exists")
	ErrInvalidKind       = errors.New("unknown analysis kind")
	ErrNoEvidence        = errors.New("case has no verification results to analyze")
	ErrMalformedResponse = errors.New("agent returned an unusable analysis")
	ErrStreamOnly        = errors.New("denial probability is generated through its streaming endpoint")
)

// MapHTTPStatus maps analysis domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidKind),
		errors.Is(err, ErrNoEvidence),
		errors.Is(err, ErrStreamOnly):
		return http.StatusBadRequest
	case errors.Is(err, ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
