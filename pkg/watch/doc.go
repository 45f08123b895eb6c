// Package watch rebuilds schemas when their files change.
//
// A Watcher adds every configured source directory recursively, plus the
// directory of each single-file source, to an fsnotify watcher. Events for
// files with the schema extension are debounced: the rebuild callback runs
// once per quiet period with the list of files that changed. Directories
// created while watching are added automatically, and Track adds the
// directories of imported files that live outside the configured sources.
package watch
