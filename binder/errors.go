package binder

import "errors"

// Sentinel errors for binder operations.
var (
	// ErrRead is returned when the input names an existing path that
	// cannot be read.
	ErrRead = errors.New("template read error")

	// ErrFunc is returned when a function placeholder's callable fails.
	ErrFunc = errors.New("template function error")
)
