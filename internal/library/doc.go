// Package library persists the comic index in SQLite and exposes the
// read/upsert operations the scanner and the API adapter consume.
//
// The Store manages the database connection, schema initialization, and the
// series/issue records. Series rows are created lazily the first time an
// issue belonging to them is discovered; neither series nor issues are ever
// deleted by a scan, so an issue whose backing archive vanished stays in the
// index and surfaces as a read-time error instead. The only post-creation
// mutations are the advisory page-count/cover cache and reading progress.
//
// Schema changes bump schemaVersion in schema.go; the database is cheap to
// rebuild from a rescan, so there is no migration machinery.
package library
