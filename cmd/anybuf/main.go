// anybuf compiles anybuf schema files and generates code from them.
//
// Usage:
//
//	# Compile the sources and outputs named in ./anybuf.yaml
//	anybuf compile
//
//	# Generate Go for one schema tree, printing to stdout
//	anybuf compile schemas/ --lang go
//
//	# Check schemas without generating anything
//	anybuf check schemas/ --format json
//
//	# Print the resolved declarations
//	anybuf dump schemas/ --format yaml
//
//	# Rebuild on every change
//	anybuf watch
package main

import "os"

func main() {
	os.Exit(Execute())
}
