// Package cmd implements the subcommands of mkcmd.
//
// Every command receives the shared [Options] bound by the root parser. The
// options locate and parse the command script, prepare the initial
// environment and construct the [engine.Engine] that runs it.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
