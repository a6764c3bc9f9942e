package lang

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
)

func TestScript_Format(t *testing.T) {
	input := "a x {\n  y = \"hello world\"\n  > echo $y\n" +
		"  if $x == 1 { z = 1 } else { z = 2 }\n  b {}\n}\nc{}\n"

	script, err := ParseString(t.Context(), input)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	want := "a x {\n" +
		"\ty = \"hello world\"\n" +
		"\t> echo $y\n" +
		"\tif $x == 1 {\n" +
		"\t\tz = 1\n" +
		"\t} else {\n" +
		"\t\tz = 2\n" +
		"\t}\n" +
		"\tb {}\n" +
		"}\n" +
		"\n" +
		"c {}\n"

	var buf bytes.Buffer
	if err := script.Format(t.Context(), &buf, 0); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Format() mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()

	if err := script.Format(t.Context(), &buf, 2); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if !strings.Contains(buf.String(), "\n  y = ") {
		t.Errorf("Format(indent 2) did not indent with spaces:\n%s", buf.String())
	}
}

func TestScript_Format_RoundTrip(t *testing.T) {
	inputs := []string{
		exampleScript,
		"a { x = \"\"; y = \"#not comment\"; z = \"a=b\"; w = \"${X}\" }",
		"a { for v in [] {}; if \"a b\" matches '^a' { > echo ok } }",
		"a p q { depends b, c\n b { c { d {} } } }",
	}

	for _, input := range inputs {
		first, err := ParseString(t.Context(), input)
		if err != nil {
			t.Fatalf("ParseString(%q) error = %v", input, err)
		}

		var buf bytes.Buffer
		if err := first.Format(t.Context(), &buf, 0); err != nil {
			t.Fatalf("Format() error = %v", err)
		}

		second, err := ParseString(t.Context(), buf.String())
		if err != nil {
			t.Fatalf("reparse of\n%s\nerror = %v", buf.String(), err)
		}

		if diff := cmp.Diff(first, second, ignorePos); diff != "" {
			t.Errorf("round trip mismatch (-first +second):\n%s", diff)
		}
	}
}

func TestScript_FormatJSON(t *testing.T) {
	script, err := ParseString(t.Context(), exampleScript)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	var buf bytes.Buffer
	if err := script.FormatJSON(t.Context(), &buf, 2); err != nil {
		t.Fatalf("FormatJSON() error = %v", err)
	}

	var got scriptDoc
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	if diff := cmp.Diff(script.document(), got); diff != "" {
		t.Errorf("FormatJSON() mismatch (-want +got):\n%s", diff)
	}

	if got.Nodes[0].Body[0].Kind != "depends" {
		t.Errorf("first statement kind = %q", got.Nodes[0].Body[0].Kind)
	}
}

func TestScript_FormatYAML(t *testing.T) {
	script, err := ParseString(t.Context(), exampleScript)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	var buf bytes.Buffer
	if err := script.FormatYAML(t.Context(), &buf, 2); err != nil {
		t.Fatalf("FormatYAML() error = %v", err)
	}

	var got scriptDoc
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}

	if diff := cmp.Diff(script.document(), got); diff != "" {
		t.Errorf("FormatYAML() mismatch (-want +got):\n%s", diff)
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"$var", "$var"},
		{"bin/$x", "bin/$x"},
		{"", `""`},
		{"two words", `"two words"`},
		{"a=b", `"a=b"`},
		{"#x", `"#x"`},
		{"//x", `"//x"`},
		{"${x}", `"${x}"`},
		{"tab\there", `"tab\there"`},
	}

	for _, tt := range tests {
		if got := quote(tt.in); got != tt.want {
			t.Errorf("quote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
