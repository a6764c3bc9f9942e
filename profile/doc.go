// Package profile provides optional runtime profiling for mkcmd.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag:
//
//	go build -tags pprof .
//	./mkcmd --pprof-mode cpu --pprof-dir ./profiles build
//	go tool pprof -http=: ./profiles/cpu.pprof
//
// Without the tag, [Modes] is empty and [Profiler.Start] always returns a
// no-op stopper.
//
// Supported modes with the tag: allocs, block, clock, cpu, goroutine, heap,
// mem, mutex, thread and trace. Profiles are written to the configured
// directory, by default the "pprof" subdirectory of the user cache
// directory. Building with the tag also registers the [net/http/pprof]
// handlers on the default HTTP mux.
package profile
