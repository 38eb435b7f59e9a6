package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/coder/quartz"
)

// Printer writes plain-text progress lines for non-interactive output,
// throttled so a tight progress interval doesn't flood logs. The final
// report always prints.
type Printer struct {
	w        io.Writer
	clock    quartz.Clock
	interval time.Duration
	last     time.Time
	printed  bool
}

// NewPrinter creates a Printer that emits at most one line per interval.
func NewPrinter(w io.Writer, clock quartz.Clock, interval time.Duration) *Printer {
	return &Printer{w: w, clock: clock, interval: interval}
}

// Report prints a progress line if the throttle interval has elapsed, or if
// this is the final report.
func (p *Printer) Report(completed, total int) {
	now := p.clock.Now()
	if completed < total && p.printed && now.Sub(p.last) < p.interval {
		return
	}
	p.last = now
	p.printed = true

	percent := 0.0
	if total > 0 {
		percent = float64(completed) / float64(total) * 100.0
	}
	fmt.Fprintf(p.w, "progress: %s/%s (%.1f%%)\n", formatInt(completed), formatInt(total), percent)
}
