package engine

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/mkcmd/lang"
)

func TestEnv_Expand(t *testing.T) {
	env := NewEnv()
	env.Set("a", "1")
	env.Set("ab", "2")
	env.Set("name", "world")
	env.Set("ref", "$a")

	tests := []struct {
		in, want string
	}{
		{"$missing value", "$missing value"},
		{"no refs", "no refs"},
		{"$a", "1"},
		{"$ab", "2"},
		{"$abc", "2c"},
		{"${a}b", "1b"},
		{"${missing}", "${missing}"},
		{"${a", "${a"},
		{"$$a", "$1"},
		{"cost $", "cost $"},
		{"hello $name!", "hello world!"},
		{"$ref", "$a"},
		{"$a$ab$a", "121"},
	}

	for _, tt := range tests {
		if got := env.Expand(tt.in); got != tt.want {
			t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnv_ExpandAfterNewBinding(t *testing.T) {
	env := NewEnv()
	env.Set("a", "1")

	if got := env.Expand("$ab"); got != "1b" {
		t.Errorf("Expand($ab) = %q, want 1b", got)
	}

	env.Set("ab", "2")

	if got := env.Expand("$ab"); got != "2" {
		t.Errorf("Expand($ab) after binding ab = %q, want 2", got)
	}
}

func TestEnv_ZeroValue(t *testing.T) {
	var env Env

	if got := env.Expand("$x"); got != "$x" {
		t.Errorf("Expand on empty env = %q", got)
	}

	if _, ok := env.Get("x"); ok {
		t.Error("Get on empty env found a value")
	}

	env.Set("x", "1")

	if got, _ := env.Get("x"); got != "1" {
		t.Errorf("Get(x) = %q", got)
	}
}

func TestEnv_NamesAndAll(t *testing.T) {
	env := NewEnv()
	env.Set("b", "2")
	env.Set("a", "1")
	env.Set("b", "3")

	if env.Len() != 2 {
		t.Errorf("Len() = %d, want 2", env.Len())
	}

	if diff := cmp.Diff([]string{"a", "b"}, env.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	var pairs []string
	for k, v := range env.All() {
		pairs = append(pairs, k+"="+v)
	}

	if diff := cmp.Diff([]string{"a=1", "b=3"}, pairs); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
}

func TestEnv_LoadDotenv(t *testing.T) {
	env := NewEnv()
	env.Set("A", "old")

	src := "A=1\nB=\"two words\"\n# comment\nexport C=3\n"
	if err := env.LoadDotenv(strings.NewReader(src)); err != nil {
		t.Fatalf("LoadDotenv() error = %v", err)
	}

	for name, want := range map[string]string{"A": "1", "B": "two words", "C": "3"} {
		if got, _ := env.Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestEnv_EvalCondition(t *testing.T) {
	env := NewEnv()
	env.Set("x", "1")
	env.Set("name", "release-build")

	tests := []struct {
		left, op, right string
		want            bool
	}{
		{"a", "==", "a", true},
		{"a", "==", "b", false},
		{"a", "!=", "b", true},
		{"$x", "==", "1", true},
		{"$x", "!=", "1", false},
		{"b", ">", "a", true},
		{"a", "<", "b", true},
		{"10", "<", "9", true},
		{"a", ">=", "a", true},
		{"a", "<=", "b", true},
		{"b", "<=", "a", false},
		{"$name", "contains", "build", true},
		{"$name", "startsWith", "release", true},
		{"$name", "endsWith", "release", false},
		{"$name", "matches", "^rel.*d$", true},
		{"$name", "matches", "(", false},
		{"a", "like", "a", false},
		{"", "==", "", true},
	}

	for _, tt := range tests {
		cond := lang.Condition{Left: tt.left, Op: tt.op, Right: tt.right}
		if got := env.EvalCondition(cond); got != tt.want {
			t.Errorf("EvalCondition(%q %s %q) = %v, want %v",
				tt.left, tt.op, tt.right, got, tt.want)
		}
	}
}
