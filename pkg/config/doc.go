// Package config loads the anybuf project configuration.
//
// A project is described by an anybuf.yaml file next to the schemas:
//
//	sources: [schemas]
//	extension: .anybuf
//	parser:
//	  max_depth: 32
//	outputs:
//	  - language: go
//	    path: gen/schema.go
//	    package: schema
//	  - language: ts
//	    path: web/src/schema.ts
//	telemetry:
//	  logging:
//	    level: debug
//	    format: console
//	  metrics:
//	    enabled: true
//	watch:
//	  debounce: 300ms
//
// Relative paths are resolved against the directory holding the file.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention ANYBUF_SECTION_FIELD
// and take precedence over the file:
//
//   - ANYBUF_SOURCES (comma separated) overrides sources
//   - ANYBUF_PARSER_MAX_DEPTH overrides parser.max_depth
//   - ANYBUF_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//   - ANYBUF_WATCH_DEBOUNCE overrides watch.debounce
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (all problems are reported together)
package config
