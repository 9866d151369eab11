// Package progress shows a spinner while an external step runs with its
// output captured.
package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Spinner ticks once per chunk of output written to it.
type Spinner struct {
	label string
	w     io.Writer
	bar   *progressbar.ProgressBar
	start time.Time
	done  bool
}

// NewSpinner starts a spinner labelled label that renders to w.
func NewSpinner(w io.Writer, label string) *Spinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
	return &Spinner{label: label, w: w, bar: bar, start: time.Now()}
}

// Write advances the spinner. The bytes themselves are discarded.
func (s *Spinner) Write(p []byte) (int, error) {
	if s == nil || s.done {
		return len(p), nil
	}
	_ = s.bar.Add(1)
	return len(p), nil
}

// Finish stops the spinner and prints how long the step took.
func (s *Spinner) Finish(ok bool) {
	if s == nil || s.done {
		return
	}
	s.done = true
	_ = s.bar.Finish()
	status := "done"
	if !ok {
		status = "failed"
	}
	fmt.Fprintf(s.w, "%s %s in %s\n", s.label, status, formatDuration(time.Since(s.start)))
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		return "--:--"
	}

	if d < time.Minute {
		return fmt.Sprintf("00:%02d", int(d.Seconds()))
	}

	if d < time.Hour {
		return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
