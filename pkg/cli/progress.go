package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// ProgressReporter reports the steps of a multi-step operation, such as
// the outputs of one compile.
type ProgressReporter interface {
	Start(total int)
	Step(label string, err error)
	Finish()
}

// StepProgress prints one line per step: "[2/3] ok  gen/schema.ts".
type StepProgress struct {
	mu      sync.Mutex
	total   int
	current int
	failed  int
	started time.Time
	writer  io.Writer
}

// NewProgressReporter creates a new progress reporter that writes to w.
// If w is nil, it defaults to os.Stderr.
func NewProgressReporter(w io.Writer) ProgressReporter {
	if w == nil {
		w = os.Stderr
	}
	return &StepProgress{writer: w}
}

// Start initializes the progress reporter with the number of steps.
func (p *StepProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.current = 0
	p.failed = 0
	p.started = time.Now()
}

// Step reports one finished step.
func (p *StepProgress) Step(label string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current++
	if err != nil {
		p.failed++
		fmt.Fprintf(p.writer, "[%d/%d] FAIL %s: %v\n", p.current, p.total, label, err)
		return
	}
	fmt.Fprintf(p.writer, "[%d/%d] ok   %s\n", p.current, p.total, label)
}

// Finish prints a summary line.
func (p *StepProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total == 0 {
		return
	}
	fmt.Fprintf(p.writer, "%d of %d outputs written in %s\n",
		p.current-p.failed, p.total, time.Since(p.started).Round(time.Millisecond))
}
