// Command longbox is the command-line companion to longboxd: it scans the
// library, inspects the index, records reading progress, and can run the
// server in the foreground.
package main
