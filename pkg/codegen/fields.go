package codegen

import "anybuf-dev/anybuf/pkg/idl/ast"

// Fields returns the fields of st including those inherited from its
// bases, depth first in base order, followed by its own. A field
// redeclared further down the hierarchy replaces the inherited one in
// place. The tree itself never merges bases; this is for backends whose
// target language has no inheritance.
func Fields(tree *ast.Tree, st *ast.Struct) []*ast.Field {
	var fields []*ast.Field
	position := make(map[string]int)
	visited := make(map[ast.NodeID]bool)

	var collect func(s *ast.Struct)
	collect = func(s *ast.Struct) {
		if visited[s.ID] {
			return
		}
		visited[s.ID] = true
		for _, base := range s.Bases {
			if b := tree.Struct(base); b != nil {
				collect(b)
			}
		}
		for _, f := range s.Fields(tree) {
			if i, ok := position[f.Name]; ok {
				fields[i] = f
				continue
			}
			position[f.Name] = len(fields)
			fields = append(fields, f)
		}
	}
	collect(st)
	return fields
}
