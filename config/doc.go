// Package config loads server and batch settings.
//
// Resolution is layered: built-in defaults, then an optional YAML file,
// then WOUNDFLOW_* environment variables. Later layers win.
package config
