// Package progress emits the line protocol consumed by the control
// panel: `PROGRESS:<0-100>:<message>` on standard output. Any other
// line the process prints is treated by the consumer as opaque status
// text, so log output must stay off stdout.
package progress

import (
	"fmt"
	"io"
	"sync"
)

// Reporter writes progress lines to a stream. Safe for concurrent use:
// worker completions from the orchestrator race to report.
type Reporter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewReporter creates a reporter writing to out (normally os.Stdout).
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Report emits one PROGRESS line. pct is clamped to [0, 100].
func (r *Reporter) Report(pct int, format string, args ...any) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "PROGRESS:%d:%s\n", pct, fmt.Sprintf(format, args...))
}

// Ratio emits a PROGRESS line for done-out-of-total units.
func (r *Reporter) Ratio(done, total int, format string, args ...any) {
	pct := 0
	if total > 0 {
		pct = done * 100 / total
	}
	r.Report(pct, format, args...)
}
