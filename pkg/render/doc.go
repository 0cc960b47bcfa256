// Package render turns diagram source into output bytes.
//
// An [Invoker] runs the renderer selected by the effective options:
//
//   - engine "exec" spawns the configured program, writes the diagram
//     source to its stdin and collects stdout within a bounded time
//   - engine "graphviz" renders DOT in-process with go-graphviz
//
// Markup output is passed through [Sanitize] so the SVG can be inlined into
// a larger HTML document.
//
// # Process contract
//
// A renderer run either returns its stdout or fails with one of:
//
//   - CANNOT_RUN: the program could not be started
//   - RENDERER_STDERR: anything was written to stderr, whatever the exit status
//   - RENDERER_EXIT: non-zero exit status with an empty stderr
//   - TIMEOUT: the run exceeded [Invoker.Timeout]; the process group is killed
//
// Each failure wraps a [ProcessError] holding the captured output.
//
// Independent renders share no mutable state besides the cache, so a host
// may call [Invoker.Render] from several goroutines.
package render
