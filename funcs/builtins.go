package funcs

import (
	"strconv"
	"time"

	"github.com/randalmurphal/tinybinder/binder"
)

// Builtins returns clock helpers evaluated at render time:
//
//   - year: four-digit year
//   - date: YYYY-MM-DD
//   - datetime: RFC 3339 timestamp
//   - timestamp: Unix seconds
//
// A nil now uses time.Now.
func Builtins(now func() time.Time) binder.FuncTable {
	if now == nil {
		now = time.Now
	}

	return binder.FuncTable{
		"year":      binder.Lift(func() string { return now().Format("2006") }),
		"date":      binder.Lift(func() string { return now().Format(time.DateOnly) }),
		"datetime":  binder.Lift(func() string { return now().Format(time.RFC3339) }),
		"timestamp": binder.Lift(func() string { return strconv.FormatInt(now().Unix(), 10) }),
	}
}

// Merge combines tables into a new one. Later tables win on name clashes.
func Merge(tables ...binder.FuncTable) binder.FuncTable {
	merged := make(binder.FuncTable)
	for _, t := range tables {
		for name, fn := range t {
			merged[name] = fn
		}
	}
	return merged
}
