package engine

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/mung"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Result holds the captured outcome of a command that ran to completion.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Shell runs expanded command text. A non-nil error means the command
// could not be started at all; a command that ran and failed reports a
// non-zero [Result.ExitCode] instead.
type Shell interface {
	Exec(ctx context.Context, command string) (Result, error)
}

// SystemShell runs commands with "sh -c" in a child process.
type SystemShell struct {
	// Path to the shell executable. Defaults to "sh".
	Path string
	// Working directory of the child. Defaults to the current directory.
	Dir string
	// Directories prepended to the child's PATH.
	PathPrefix []string
}

// Exec implements [Shell].
func (s SystemShell) Exec(ctx context.Context, command string) (Result, error) {
	name := s.Path
	if name == "" {
		name = "sh"
	}

	cmd := exec.CommandContext(ctx, name, "-c", command)
	cmd.Dir = s.Dir

	if len(s.PathPrefix) > 0 {
		cmd.Env = prefixPath(os.Environ(), s.PathPrefix)
	}

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()

		return res, nil
	}

	if err != nil {
		return res, ErrSpawn.Wrap(err)
	}

	return res, nil
}

// BuiltinShell runs commands with an in-process POSIX shell interpreter.
// It needs no external sh executable.
type BuiltinShell struct {
	// Working directory. Defaults to the current directory.
	Dir string
	// Directories prepended to PATH.
	PathPrefix []string
}

// Exec implements [Shell]. Commands that fail to parse are reported as
// spawn failures.
func (s BuiltinShell) Exec(ctx context.Context, command string) (Result, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return Result{}, ErrSpawn.Wrap(err)
	}

	var stdout, stderr bytes.Buffer

	environ := os.Environ()
	if len(s.PathPrefix) > 0 {
		environ = prefixPath(environ, s.PathPrefix)
	}

	opts := []interp.RunnerOption{
		interp.StdIO(nil, &stdout, &stderr),
		interp.Env(expand.ListEnviron(environ...)),
	}

	if s.Dir != "" {
		opts = append(opts, interp.Dir(s.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return Result{}, ErrSpawn.Wrap(err)
	}

	err = runner.Run(ctx, prog)

	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var status interp.ExitStatus
	if errors.As(err, &status) {
		res.ExitCode = int(status)

		return res, nil
	}

	if err != nil {
		return res, ErrSpawn.Wrap(err)
	}

	return res, nil
}

// prefixPath returns a copy of environ with prefix prepended to PATH.
func prefixPath(environ []string, prefix []string) []string {
	out := make([]string, 0, len(environ)+1)
	found := false

	for _, kv := range environ {
		if value, ok := strings.CutPrefix(kv, "PATH="); ok {
			kv = "PATH=" + mungPrefix(value, prefix...)
			found = true
		}

		out = append(out, kv)
	}

	if !found {
		out = append(out, "PATH="+mungPrefix("", prefix...))
	}

	return out
}

func mungPrefix(value string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(value),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}
