package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/mkcmd/engine"
	"github.com/ardnew/mkcmd/lang"
)

func TestDiscover(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files []string
		dirs  []string
		want  string
	}{
		{
			name:  "capitalized first",
			files: []string{"/work/make.cmd", "/work/Make.cmd", "/work/a.cmd"},
			want:  "/work/Make.cmd",
		},
		{
			name:  "lowercase",
			files: []string{"/work/make.cmd", "/work/a.cmd"},
			want:  "/work/make.cmd",
		},
		{
			name:  "any script in lexical order",
			files: []string{"/work/zeta.cmd", "/work/beta.cmd", "/work/notes.txt"},
			want:  "/work/beta.cmd",
		},
		{
			name:  "directories ignored",
			files: []string{"/work/tools.cmd/x", "/work/real.cmd"},
			want:  "/work/real.cmd",
		},
		{
			name:  "nested scripts ignored",
			files: []string{"/work/sub/Make.cmd", "/work/z.cmd"},
			want:  "/work/z.cmd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			files := make(map[string]string)
			for _, name := range tt.files {
				files[name] = ""
			}

			got, err := Discover(memFS(t, files), "/work")
			if err != nil {
				t.Fatalf("Discover: %v", err)
			}

			if got != tt.want {
				t.Errorf("Discover = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDiscover_NotFound(t *testing.T) {
	t.Parallel()

	_, err := Discover(memFS(t, map[string]string{"/work/README": ""}), "/work")
	if !errors.Is(err, ErrNoScript) {
		t.Fatalf("Discover error = %v, want %v", err, ErrNoScript)
	}
}

func TestOptions_LoadScript(t *testing.T) {
	t.Parallel()

	opts, _, _ := testOptions(t, map[string]string{})

	script, err := opts.LoadScript(t.Context())
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}

	var names []string
	for _, n := range script.Nodes {
		names = append(names, n.Name)
	}

	if diff := cmp.Diff([]string{"build", "clean"}, names); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
}

func TestOptions_LoadScript_Discovered(t *testing.T) {
	t.Parallel()

	opts := &Options{
		Dir: "/work",
		FS:  memFS(t, map[string]string{"/work/make.cmd": "found { > echo ok }"}),
	}

	script, err := opts.LoadScript(t.Context())
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}

	if len(script.Nodes) != 1 || script.Nodes[0].Name != "found" {
		t.Errorf("LoadScript nodes = %v", script.Nodes)
	}
}

func TestOptions_LoadScript_Stdin(t *testing.T) {
	t.Parallel()

	opts := &Options{File: "-", Stdin: strings.NewReader("piped {}")}

	script, err := opts.LoadScript(t.Context())
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}

	if len(script.Nodes) != 1 || script.Nodes[0].Name != "piped" {
		t.Errorf("LoadScript nodes = %v", script.Nodes)
	}
}

func TestOptions_LoadScript_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		file string
		want error
	}{
		{"missing file", "/work/missing.cmd", ErrLoadScript},
		{"parse error", "/work/bad.cmd", lang.ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts, _, _ := testOptions(t, map[string]string{"/work/bad.cmd": "build {"})
			opts.File = tt.file

			_, err := opts.LoadScript(t.Context())
			if !errors.Is(err, tt.want) {
				t.Errorf("LoadScript error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestOptions_LoadEnv(t *testing.T) {
	t.Parallel()

	opts, _, _ := testOptions(t, map[string]string{
		"/work/.env":       "A=from-env\nB=keep\n",
		"/work/.env.local": "A=from-local\n",
	})
	opts.EnvFile = []string{"/work/.env", "/work/.env.local"}
	opts.Set = map[string]string{"C": "set", "B": "override"}

	env, err := opts.LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}

	got := make(map[string]string)
	for name, value := range env.All() {
		got[name] = value
	}

	want := map[string]string{"A": "from-local", "B": "override", "C": "set"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("env mismatch (-want +got):\n%s", diff)
	}
}

func TestOptions_LoadEnv_Missing(t *testing.T) {
	t.Parallel()

	opts, _, _ := testOptions(t, map[string]string{})
	opts.EnvFile = []string{"/work/.env"}

	if _, err := opts.LoadEnv(); !errors.Is(err, ErrLoadEnv) {
		t.Errorf("LoadEnv error = %v, want %v", err, ErrLoadEnv)
	}
}

func TestOptions_NewShell(t *testing.T) {
	t.Parallel()

	opts := &Options{Shell: ShellBuiltin, Dir: "/tmp", PathPrefix: []string{"/opt"}}
	if _, ok := opts.NewShell().(engine.BuiltinShell); !ok {
		t.Errorf("NewShell(%q) = %T", opts.Shell, opts.NewShell())
	}

	opts.Shell = ShellSystem

	sh, ok := opts.NewShell().(engine.SystemShell)
	if !ok {
		t.Fatalf("NewShell(%q) = %T", opts.Shell, opts.NewShell())
	}

	if sh.Dir != "/tmp" || len(sh.PathPrefix) != 1 {
		t.Errorf("SystemShell = %+v", sh)
	}
}
