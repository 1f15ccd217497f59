// Package cursordb reads the editor's SQLite state databases: the global
// state.vscdb holding auth tokens and the repository tracker, and the
// per-workspace databases holding repository keys.
//
// Databases are copied before they are opened because the running editor
// holds a lock on them. The SQLite driver is selected at build time, see
// build_purego.go and build_cgo.go.
package cursordb
