package criteria

import "errors"

// Domain errors for criterion operations.
var (
	ErrInvalidCriterion      = errors.New("unknown criterion")
	ErrInvalidRecommendation = errors.New("unknown recommendation")
	ErrIndicatorMismatch     = errors.New("indicators_met does not match indicator booleans")
)
