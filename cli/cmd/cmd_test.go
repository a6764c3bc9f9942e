package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
)

const testScript = `
# build tool
build mode {
	> echo build $mode
	release { > echo release }
	debug { > echo debug }
}

clean {
	> echo clean
}
`

// memFS returns an in-memory file system holding files.
func memFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for name, data := range files {
		if err := afero.WriteFile(fsys, name, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return fsys
}

// testOptions returns options reading /work/Make.cmd from memory and running
// commands with the builtin shell. Diagnostics are captured in the returned
// buffers.
func testOptions(t *testing.T, files map[string]string) (opts *Options, stdout, stderr *bytes.Buffer) {
	t.Helper()

	stdout, stderr = new(bytes.Buffer), new(bytes.Buffer)

	if _, ok := files["/work/Make.cmd"]; !ok {
		files["/work/Make.cmd"] = testScript
	}

	return &Options{
		File:   "/work/Make.cmd",
		Shell:  ShellBuiltin,
		FS:     memFS(t, files),
		Stdout: stdout,
		Stderr: stderr,
	}, stdout, stderr
}
