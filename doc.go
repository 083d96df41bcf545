// Package tinybinder is a lightweight HTML templating toolkit that merges
// content, and the output of custom functions, into an HTML file.
//
// Each subpackage can be used independently:
//
//   - binder: the template engine with {{ $asset }} and {{ @function }} placeholders
//   - funcs: function tables from fragment directories, snippet files and clock helpers
//   - config: render job files (YAML, TOML, JSON) and their JSON schema
//   - logging: slog logger construction
//   - watch: re-run a callback when files change
//
// The tinybinder command in cmd/tinybinder ties them together.
//
// # Quick Start
//
//	import "github.com/randalmurphal/tinybinder/binder"
//
//	engine, err := binder.New("template.html", binder.WithFuncs(binder.FuncTable{
//	    "footer": binder.Static("<footer></footer>"),
//	}))
//	if err != nil {
//	    return err
//	}
//	html, err := engine.AddAsset("pageName", "Demo Page").Render()
package tinybinder
