package idgen

import "github.com/google/uuid"

// NewFunc returns a new random identifier.
var NewFunc = func() string { return uuid.New().String() }

// New returns NewFunc().
func New() string { return NewFunc() }
