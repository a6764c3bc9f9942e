package engine

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsole_Emit(t *testing.T) {
	var stdout, stderr bytes.Buffer

	c := NewConsole(&stdout, &stderr, false)

	for _, ev := range []Event{
		{KindParam, "mode = release"},
		{KindSet, "x = 1"},
		{KindDepends, "clean"},
		{KindExec, "echo hi"},
		{KindOutput, "hi\n"},
		{KindOutput, "partial"},
		{KindError, "command failed with status 1"},
		{KindStderr, "boom"},
	} {
		c.Emit(ev)
	}

	wantOut := "[param] mode = release\n" +
		"[set] x = 1\n" +
		"[depends] clean\n" +
		"[exec] echo hi\n" +
		"hi\n" +
		"partial"
	if stdout.String() != wantOut {
		t.Errorf("stdout = %q, want %q", stdout.String(), wantOut)
	}

	wantErr := "[error] command failed with status 1\nboom\n"
	if stderr.String() != wantErr {
		t.Errorf("stderr = %q, want %q", stderr.String(), wantErr)
	}
}

func TestConsole_Color(t *testing.T) {
	var stdout bytes.Buffer

	NewConsole(&stdout, &stdout, true).Emit(Event{KindExec, "echo hi"})

	if out := stdout.String(); !strings.Contains(out, "[exec]") ||
		!strings.HasSuffix(out, " echo hi\n") {
		t.Errorf("colored output = %q", out)
	}
}

func TestKind_String(t *testing.T) {
	tests := map[Kind]string{
		KindExec:    "exec",
		KindOutput:  "output",
		KindStderr:  "stderr",
		KindSet:     "set",
		KindParam:   "param",
		KindDepends: "depends",
		KindError:   "error",
		Kind(-1):    "unknown",
		Kind(99):    "unknown",
	}

	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestSinkFunc(t *testing.T) {
	var got []Event

	sink := SinkFunc(func(ev Event) { got = append(got, ev) })
	sink.Emit(Event{KindSet, "a = b"})
	Discard.Emit(Event{KindSet, "ignored"})

	if len(got) != 1 || got[0].Text != "a = b" {
		t.Errorf("SinkFunc received %v", got)
	}
}
