package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

const testConfigPath = "/config/config.yaml"

// initContext parses args with a minimal command line carrying the shared
// options and the init command.
func initContext(t *testing.T, args ...string) (context.Context, *Options, *Init) {
	t.Helper()

	var cli struct {
		Options `embed:""`

		Init Init `cmd:""`
	}

	parser, err := kong.New(&cli,
		kong.Vars{ConfigIdentifier: testConfigPath}.CloneWith(cli.Options.Vars()))
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append(args, "init"))
	if err != nil {
		t.Fatal(err)
	}

	cli.FS = afero.NewMemMapFs()

	return WithContext(t.Context(), ktx), &cli.Options, &cli.Init
}

func TestInit_WritesFlagValues(t *testing.T) {
	t.Parallel()

	ctx, opts, initCmd := initContext(t,
		"--shell=builtin", "--set", "GOOS=linux", "--env-file=.env", "--no-color")

	if err := initCmd.Run(ctx, opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := afero.ReadFile(opts.FS, testConfigPath)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, data)
	}

	want := map[string]any{
		"shell":          "builtin",
		"env-file":       []any{".env"},
		"set":            map[string]any{"GOOS": "linux"},
		"color":          false,
		"no-cycle-check": false,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestInit_ExistingFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		wantErr error
	}{
		{"refuses without force", false, ErrFileExists},
		{"overwrites with force", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, opts, initCmd := initContext(t)
			initCmd.Force = tt.force

			if err := afero.WriteFile(opts.FS, testConfigPath, []byte("existing"), 0o600); err != nil {
				t.Fatal(err)
			}

			err := initCmd.Run(ctx, opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run error = %v, want %v", err, tt.wantErr)
			}

			data, _ := afero.ReadFile(opts.FS, testConfigPath)
			if overwritten := string(data) != "existing"; overwritten != tt.force {
				t.Errorf("overwritten = %v, want %v", overwritten, tt.force)
			}
		})
	}
}
