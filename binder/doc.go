// Package binder merges named assets, and the results of named functions,
// into an HTML template.
//
// # Syntax
//
// Variables use a dollar sigil inside double braces:
//
//	<title>{{ $pageName }}</title>
//
// Functions use an at sigil and take no arguments:
//
//	{{ @footer }}
//
// Whitespace inside the braces is optional, so {{$name}} and {{  $name  }}
// are equivalent. A name is any run of non-whitespace characters. Anything
// else, including malformed braces, is left untouched.
//
// # Rendering
//
// Render runs two passes over the document. The variable pass replaces
// every variable placeholder with its asset; the function pass then scans
// the result and replaces every function placeholder with the output of
// its callable. Because the function pass sees the whole variable pass
// output, an asset whose value contains {{ @name }} is resolved as a
// function call. Nothing is expanded recursively within a pass.
//
// Functions are looked up in a FuncTable passed with WithFuncs and are
// called once per occurrence, at replacement time.
//
// # Debug Mode
//
// Unresolved placeholders are removed from the output. With SetDebug(true)
// they are left in place so missing assets and functions are visible.
//
// # Example
//
//	engine, err := binder.New("template.html", binder.WithFuncs(binder.FuncTable{
//	    "footer": binder.Static("<footer></footer>"),
//	}))
//	if err != nil {
//	    return err
//	}
//	engine.AddAsset("pageName", "Demo Page")
//	html, err := engine.Render()
//
// Or in one call:
//
//	html, err := binder.Make("template.html", map[string]any{"pageName": "Demo"}, false)
//
// # Loading
//
// New treats its input as a path when a file exists there and as literal
// template text otherwise. This is a convenience, not a security boundary:
// use FromString when the input must never be read from disk.
package binder
