package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
// Validation and lifecycle failures come from the acts package
// (acts.ErrValidation, acts.ErrLifecycle, acts.ErrReconciliation).
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrActNotFound   = errors.New("match act not found")
	ErrMatchNotFound = errors.New("match not found")

	// A second act was created concurrently for the same match.
	ErrActConflict = errors.New("match already has an act")
)
