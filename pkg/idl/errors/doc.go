// Package errors provides diagnostics for anybuf schema compilation.
//
// Every diagnostic carries a category (lexical, syntax, semantic, io), the
// offending token and its location. The single-line form returned by
// Error is the stable, machine-friendly format:
//
//	schemas/user.anybuf:12:5 "Adress": doesn't exist
//
// Detailed renders the same diagnostic for humans, with surrounding source
// lines and, for unresolved names, a suggestion:
//
//	[semantic] doesn't exist
//	  --> schemas/user.anybuf:12:5 "Adress"
//	  |
//	   10 | struct User {
//	   11 |     name: 0 str;
//	-> 12 |     home: 1 Adress;
//	      |             ^
//	  |
//	  = suggestion: Did you mean 'Address'?
package errors
