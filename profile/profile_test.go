package profile

import (
	"slices"
	"testing"
)

func TestMake(t *testing.T) {
	p := Make(WithMode("cpu"), WithPath("/tmp/x"), WithQuiet(true))

	want := Profiler{Mode: "cpu", Path: "/tmp/x", Quiet: true}
	if p != want {
		t.Errorf("Make() = %+v, want %+v", p, want)
	}
}

func TestStart_NoMode(t *testing.T) {
	stopper := Make(WithPath(t.TempDir())).Start()
	if _, ok := stopper.(ignore); !ok {
		t.Errorf("Start() without mode = %T, want no-op", stopper)
	}

	stopper.Stop()
}

func TestStart_UnknownMode(t *testing.T) {
	stopper := Make(WithMode("bogus"), WithPath(t.TempDir())).Start()
	if _, ok := stopper.(ignore); !ok {
		t.Errorf("Start() with unknown mode = %T, want no-op", stopper)
	}

	stopper.Stop()
}

func TestModes_Sorted(t *testing.T) {
	if m := Modes(); !slices.IsSorted(m) {
		t.Errorf("Modes() = %v, not sorted", m)
	}
}
