package engine

import "github.com/ardnew/mkcmd/pkg"

// Predefined errors (sentinel values).
var (
	ErrNoCommand          = pkg.NewError("no command specified")
	ErrCommandNotFound    = pkg.NewError("command not found")
	ErrSubcommandNotFound = pkg.NewError("subcommand not found")
	ErrExecFailed         = pkg.NewError("command failed")
	ErrSpawn              = pkg.NewError("failed to execute command")
	ErrDependencyCycle    = pkg.NewError("dependency cycle")
)
