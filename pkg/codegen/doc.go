// Package codegen renders a resolved schema tree into target languages.
//
// A Writer pairs an output path with a Backend. Write visits the
// top-level modules, enums and structs of the tree and hands each to the
// matching backend hook; the backend walks members, fields and types on
// its own. Backends that target languages without inheritance can use
// Fields to flatten inherited fields.
//
//	w, err := codegen.New("go", "schema.go", "schema")
//	if err != nil {
//	    return err
//	}
//	if err := w.Write(tree); err != nil {
//	    for _, msg := range w.Errors() {
//	        log.Println(msg)
//	    }
//	}
//
// Supported languages are listed by Languages.
package codegen
