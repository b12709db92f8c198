package verification

import (
	"errors"
	"net/http"

	"github.com/advocate-project/advocate/internal/criteria"
)

// Domain errors for verification operations.
var (
	ErrNotFound   = errors.New("verdict not found")
	ErrDuplicate  = errors.New("verdict already exists")
	ErrInProgress = errors.New("verification already in progress for this document")
	ErrNoText     = errors.New("document has no extracted text to verify")
)

// MapHTTPStatus maps verification domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInProgress) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNoText) ||
		errors.Is(err, criteria.ErrInvalidCriterion) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
