package cognitive

import "errors"

// Error taxonomy of the deviation engine. Callers match with errors.Is.
var (
	// ErrInsufficientData means the baseline is not yet computable.
	ErrInsufficientData = errors.New("insufficient data: at least 3 analyses are needed")
	// ErrOwnership means the actor is not authorized for the patient or alert.
	ErrOwnership = errors.New("actor is not authorized for this patient")
	// ErrNotFound means an alert, analysis or config id did not resolve.
	ErrNotFound = errors.New("not found")
	// ErrNonComparable means a baseline metric is zero and cannot be compared.
	ErrNonComparable = errors.New("baseline metric is zero; not comparable")
	// ErrValidation covers out-of-range metric input and bad threshold bands.
	ErrValidation = errors.New("validation failed")
)
