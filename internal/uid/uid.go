package uid

import "github.com/google/uuid"

// New returns the public-facing identifier used in every exposed row.
func New() string { return uuid.NewString() }
