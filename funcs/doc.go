// Package funcs builds binder.FuncTable values from sources outside the
// engine: directories of fragment files, snippet definition files and a
// small set of clock helpers.
//
// A fragments directory maps each file to a function named after the file
// without its extension, so partials/footer.html backs {{ @footer }}:
//
//	table, err := funcs.Dir("partials")
//
// Definition files hold a flat mapping of names to snippets in YAML, TOML or
// JSON, chosen by extension:
//
//	# snippets.yaml
//	footer: "<footer>(c) Example</footer>"
//	nav: "<nav><a href=\"/\">Home</a></nav>"
//
// Tables are combined with Merge, later tables taking precedence:
//
//	table := funcs.Merge(funcs.Builtins(nil), fragments, snippets)
package funcs
