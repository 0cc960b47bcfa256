package markdown

import (
	"fmt"
	"sync"
)

// Diagnostic is a diagram failure attributed to a source line.
type Diagnostic struct {
	// Line is the 1-based line of the opening fence.
	Line int
	Err  error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %v", d.Line, d.Err)
}

// Reporter receives what a conversion found.
type Reporter interface {
	ReportDiagram(line int)
	ReportDiagnostic(d Diagnostic)
	ReportDependency(path string)
}

type nopReporter struct{}

func (nopReporter) ReportDiagram(int)           {}
func (nopReporter) ReportDiagnostic(Diagnostic) {}
func (nopReporter) ReportDependency(string)     {}

// Collector is a Reporter that records everything. It is safe for
// concurrent use.
type Collector struct {
	mu           sync.Mutex
	diagrams     int
	diagnostics  []Diagnostic
	dependencies []string
	seen         map[string]bool
}

func (c *Collector) ReportDiagram(int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagrams++
}

func (c *Collector) ReportDiagnostic(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, d)
}

// ReportDependency records path once.
func (c *Collector) ReportDependency(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seen == nil {
		c.seen = map[string]bool{}
	}
	if c.seen[path] {
		return
	}
	c.seen[path] = true
	c.dependencies = append(c.dependencies, path)
}

// Diagrams returns how many directives were seen.
func (c *Collector) Diagrams() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.diagrams
}

// Diagnostics returns the failures in report order.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Diagnostic(nil), c.diagnostics...)
}

// Dependencies returns the distinct dependency paths in report order.
func (c *Collector) Dependencies() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.dependencies...)
}
