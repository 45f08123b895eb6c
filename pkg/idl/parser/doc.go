// Package parser reads anybuf schema files into a resolved ast.Tree.
//
// A Reader collects sources (single files, directories or in-memory
// text), then Read parses them in path order. Imports are parsed where
// they appear, before the rest of the importing file, so every name a
// file refers to has been declared by the time it is used. Parsing
// stops at the first problem and the diagnostic is available from
// Errors:
//
//	r := parser.NewReader()
//	if err := r.Load("schema/"); err != nil {
//		return err
//	}
//	tree, err := r.Read()
//	if err != nil {
//		for _, d := range r.Diagnostics() {
//			fmt.Println(d)
//		}
//	}
package parser
