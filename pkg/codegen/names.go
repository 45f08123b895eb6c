package codegen

import (
	"strings"
	"unicode"

	"anybuf-dev/anybuf/pkg/idl/ast"
)

// exportName turns a schema identifier into an exported Go identifier:
// "label_text" becomes "LabelText".
func exportName(name string) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	if sb.Len() == 0 {
		return "X" + name
	}
	return sb.String()
}

// flatName joins the exported segments of a declaration path with "_",
// so that a.b.Point becomes A_B_Point.
func flatName(tree *ast.Tree, id ast.NodeID) string {
	path := tree.Path(id)
	for i, seg := range path {
		path[i] = exportName(seg)
	}
	return strings.Join(path, "_")
}
