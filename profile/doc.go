// Package profile provides optional runtime profiling.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof -o tldr .
//	tldr --pprof-mode=cpu --pprof-dir=/tmp/tldr tar
//	go tool pprof -http=: /tmp/tldr/cpu.pprof
//
// Without the tag, [Modes] is empty and [Profiler.Start] does nothing.
// With it, [net/http/pprof] handlers are also registered on
// [net/http.DefaultServeMux].
package profile
