package funcs

import "errors"

// Sentinel errors for function table sources.
var (
	// ErrFormat is returned for definition files with an unsupported extension.
	ErrFormat = errors.New("unsupported definitions format")

	// ErrDuplicate is returned when two fragment files map to the same name.
	ErrDuplicate = errors.New("duplicate function name")
)
