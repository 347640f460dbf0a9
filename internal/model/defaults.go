package model

// Shared sentinels and defaults used across the parser, search, and TUI.
const (
	// UnknownHost is recorded when a transaction's request headers carry no
	// Host header.
	UnknownHost = "unknown"

	DefaultSkin = "default"
)
