// Package source holds the schema files of one compilation.
//
// A Registry maps each normalized absolute path to a Source: the file's
// text, its tokens and a parse Status. The status moves from Unvisited to
// InProgress when the parser starts on the file and to Done when it
// finishes; an import that reaches an InProgress file is a cycle.
package source
