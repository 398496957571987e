// Package config loads, normalizes, and validates longbox configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from an explicit path or the default
// ~/.config/longbox location. Derived locations such as the index database
// and the daemon lock file are exposed as methods so the rest of the code
// never assembles those paths itself.
package config
