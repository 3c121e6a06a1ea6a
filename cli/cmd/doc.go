// Package cmd implements the conifer subcommands: looking up keys,
// evaluating expressions, exporting the configuration tree, rendering
// it as text, and the interactive session.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the name of
	// the section holding flag defaults in the CLI's own configuration file.
	ConfigIdentifier = "config"
)
