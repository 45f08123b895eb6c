package idl

import (
	"anybuf-dev/anybuf/pkg/idl/ast"
	"anybuf-dev/anybuf/pkg/idl/parser"
)

// Compile is a convenience function that loads every given schema file
// or directory and reads them into one tree. On failure the returned
// error is the reader's diagnostic list.
func Compile(paths ...string) (*ast.Tree, error) {
	r := parser.NewReader()
	for _, path := range paths {
		if err := r.Load(path); err != nil {
			return nil, err
		}
	}
	return r.Read()
}

// CompileBytes reads schema text held in memory. Imports are resolved on
// disk relative to sourcePath.
func CompileBytes(data []byte, sourcePath string) (*ast.Tree, error) {
	r := parser.NewReader()
	if err := r.LoadBytes(sourcePath, data); err != nil {
		return nil, err
	}
	return r.Read()
}
