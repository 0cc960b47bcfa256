package render

import "fmt"

// ProcessError carries what a failed renderer run produced. It is the
// cause of the coded error returned by the invoker.
type ProcessError struct {
	Program string
	Pid     int
	Stdout  []byte
	Stderr  []byte
	Err     error
}

// Error formats the captured streams the way they are shown to authors.
func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("[stderr]\n%s\n[stdout]\n%s", e.Stderr, truncate(e.Stdout, 2048))
	if e.Err != nil {
		return fmt.Sprintf("%v\n%s", e.Err, msg)
	}
	return msg
}

// Unwrap returns the underlying exec or context error.
func (e *ProcessError) Unwrap() error {
	return e.Err
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return append(b[:n:n], "..."...)
}
