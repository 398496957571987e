// Package daemon wires the library store, the scanner, and the REST adapter
// into a single long-running process guarded by a lock file.
package daemon
