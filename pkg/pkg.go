//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the module embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command identifier. It appears in help text,
	// default config paths and the discovered script file names.
	Name = "mkcmd"
	// Description is a short summary of the project used in help output.
	Description = "Hierarchical command runner"
	// ScriptExt is the file extension of command scripts.
	ScriptExt = ".cmd"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
