package recommenders

import (
	"errors"
	"net/http"
)

// Domain errors for recommender operations.
var (
	ErrNotFound      = errors.New("recommender not found")
	ErrDuplicate     = errors.New("recommender already exists")
	ErrEmptyImport   = errors.New("import contains no rows")
	ErrTooManyRows   = errors.New("import exceeds the 50 row limit")
	ErrInvalidImport = errors.New("invalid import request")
)

// MapHTTPStatus maps recommender domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrEmptyImport) ||
		errors.Is(err, ErrTooManyRows) ||
		errors.Is(err, ErrInvalidImport) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
