package tracing

import "go.opentelemetry.io/otel/attribute"

// Span attribute keys.
const (
	AttrCompileID   = "anybuf.compile_id"
	AttrSources     = "anybuf.sources"
	AttrFiles       = "anybuf.files"
	AttrDiagnostics = "anybuf.diagnostics"
	AttrModules     = "anybuf.modules"
	AttrStructs     = "anybuf.structs"
	AttrEnums       = "anybuf.enums"
	AttrLanguage    = "anybuf.output.language"
	AttrOutput      = "anybuf.output.path"
	AttrBytes       = "anybuf.output.bytes"
)

// OutputAttributes describes one generated output.
func OutputAttributes(language, path string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrLanguage, language),
		attribute.String(AttrOutput, path),
	}
}
