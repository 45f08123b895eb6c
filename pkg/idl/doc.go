// Package idl compiles anybuf schemas into a resolved syntax tree.
//
// anybuf is a small interface definition language. A schema declares
// modules, enumerations and structs whose fields carry a wire index and a
// type:
//
//	import "common.anybuf";
//
//	module geo.shapes {
//	    enum Kind : u8 { Circle, Square = 4 }
//
//	    // A shape with an optional label.
//	    struct Shape : Base {
//	        kind: 0 Kind;
//	        points: 1 [f64, f64][];
//	        label?: 2 str;
//	        attrs: 3 <str, str>;
//	    }
//	}
//
// # Architecture
//
// The package is organized into subpackages:
//
//   - lexer: splits schema text into tokens
//   - source: loads files and tracks import state
//   - ast: the node arena and the scope resolver
//   - parser: the Reader that drives parsing and validation
//   - errors: diagnostics with location, context and suggestions
//
// # Basic Usage
//
//	tree, err := idl.Compile("schemas/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(ast.Count(tree).Structs, "structs")
//
// Diagnostics use the form
//
//	path/to/file.anybuf:3:12 "Shape": redefinition
package idl
