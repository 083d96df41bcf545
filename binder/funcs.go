package binder

import (
	"fmt"
	"sort"
)

// Func is a zero-argument callable bound to a function placeholder.
// A non-nil error aborts the render that invoked it.
type Func func() (string, error)

// FuncTable maps function placeholder names to their callables.
type FuncTable map[string]Func

// Static returns a Func that always yields s.
func Static(s string) Func {
	return func() (string, error) { return s, nil }
}

// Lift adapts a callable that cannot fail into a Func.
func Lift(fn func() string) Func {
	return func() (string, error) { return fn(), nil }
}

// Names returns the registered function names in sorted order.
func (t FuncTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// stringify converts an asset value to the text substituted for it.
// A nil value renders as the empty string.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	case error:
		return val.Error()
	default:
		return fmt.Sprint(val)
	}
}
