// Package cli contains the command line interface for mkcmd.
//
// # Usage
//
//	mkcmd [flags] [run] <path...> [--value ...]
//	mkcmd list [--flat]
//	mkcmd fmt [--format=native|json|yaml] [source]
//	mkcmd pick [-- --value ...]
//	mkcmd init [--force]
//
// Without a command, the arguments name a node path of the command script,
// which is discovered in the working directory unless --file is given.
// Tool flags must precede the node path; everything from the path onward is
// passed to the script.
//
// # Configuration
//
// Flag defaults are read from config.yaml (or config.json) in the user
// configuration directory, for example ~/.config/mkcmd/config.yaml. Keys
// name flags with hyphens or underscores:
//
//	shell: builtin
//	log_level: debug
//	env-file: [.env]
//
// Command-line flags override config file values. "mkcmd init" writes the
// current flag values to the YAML file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof
//
// It adds --pprof-mode (allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread, trace) and --pprof-dir, which defaults to the pprof
// subdirectory of the user cache directory.
package cli
