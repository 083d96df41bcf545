package binder

import (
	"regexp"
	"strings"
)

// space covers the same bytes as PCRE's \s. RE2's \s omits \v.
const space = `\t\n\v\f\r `

var (
	// variablePattern matches {{ $name }} with optional inner whitespace.
	variablePattern = regexp.MustCompile(`\{\{[` + space + `]*\$([^` + space + `]+?)[` + space + `]*\}\}`)

	// functionPattern matches {{ @name }} with optional inner whitespace.
	functionPattern = regexp.MustCompile(`\{\{[` + space + `]*@([^` + space + `]+?)[` + space + `]*\}\}`)
)

// resolver returns the replacement for a placeholder name and whether the
// name was resolved at all.
type resolver func(name string) (string, bool, error)

// replacePass substitutes every match of pattern in input in a single scan.
// Unresolved placeholders are dropped, or kept verbatim when keep is set.
// Replacement text is never re-scanned. The first resolver error stops the
// scan and is returned with an empty result.
func replacePass(pattern *regexp.Regexp, input string, keep bool, resolve resolver, miss func(name string)) (string, error) {
	matches := pattern.FindAllStringSubmatchIndex(input, -1)
	if len(matches) == 0 {
		return input, nil
	}

	var buf strings.Builder
	buf.Grow(len(input))

	last := 0
	for _, m := range matches {
		buf.WriteString(input[last:m[0]])
		last = m[1]

		name := input[m[2]:m[3]]
		value, ok, err := resolve(name)
		if err != nil {
			return "", err
		}
		if ok {
			buf.WriteString(value)
			continue
		}
		if miss != nil {
			miss(name)
		}
		if keep {
			buf.WriteString(input[m[0]:m[1]])
		}
	}
	buf.WriteString(input[last:])

	return buf.String(), nil
}

// extractNames returns the deduplicated names matched by pattern, in order
// of first appearance.
func extractNames(pattern *regexp.Regexp, input string) []string {
	seen := make(map[string]bool)
	var result []string

	for _, match := range pattern.FindAllStringSubmatch(input, -1) {
		name := match[1]
		if !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}

	return result
}
