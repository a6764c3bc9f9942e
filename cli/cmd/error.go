package cmd

import "github.com/ardnew/mkcmd/pkg"

var (
	ErrLoadScript  = pkg.NewError("load command script")
	ErrNoScript    = pkg.NewError("no command script found")
	ErrLoadEnv     = pkg.NewError("load environment file")
	ErrPickAborted = pkg.NewError("no command picked")
	ErrYAMLMarshal = pkg.NewError("marshal YAML")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
)
