package video

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/term"
)

// Progress prints a single-line terminal progress readout during
// offline rendering: frame count, current phase, and an estimated
// time remaining based on the average frame duration since the start.
type Progress struct {
	out        io.Writer
	fd         int
	totalFrame int
	started    time.Time
	lastFrame  time.Time
}

// NewProgress returns a Progress that writes to out. fd is the file
// descriptor used to query terminal width (typically int(os.Stdout.Fd()));
// pass -1 if out isn't a terminal, and a fixed width is used instead.
func NewProgress(out io.Writer, fd, totalFrames int) *Progress {
	now := time.Now()
	return &Progress{out: out, fd: fd, totalFrame: totalFrames, started: now, lastFrame: now}
}

// Update renders the readout for the given completed frame index and
// phase label.
func (p *Progress) Update(frame int, phaseLabel string) {
	now := time.Now()
	elapsed := now.Sub(p.started)
	p.lastFrame = now

	width := 80
	if p.fd >= 0 {
		if w, _, err := term.GetSize(p.fd); err == nil && w > 20 {
			width = w
		}
	}

	frac := 0.0
	if p.totalFrame > 0 {
		frac = float64(frame) / float64(p.totalFrame)
	}
	var eta time.Duration
	if frac > 0 {
		eta = time.Duration(float64(elapsed) / frac) - elapsed
	}

	barWidth := width - 40
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(frac * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)

	fmt.Fprintf(p.out, "\r[%s] frame %d/%d  phase=%-8s  eta=%s  ",
		bar, frame, p.totalFrame, phaseLabel, eta.Round(time.Second))
}

// Done finishes the progress line with a trailing newline.
func (p *Progress) Done() {
	fmt.Fprintln(p.out)
}

// String returns a human-readable label for a Kind, used as the
// phaseLabel argument to Update.
func (k Kind) String() string {
	switch k {
	case KindGrow:
		return "grow"
	case KindHold:
		return "hold"
	case KindFade:
		return "fade"
	default:
		return "?"
	}
}
