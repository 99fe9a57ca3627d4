package console

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"jito-speedtest/internal/domain/entity"
)

const (
	reportTitle    = "🚀 Jito block engine speed test results"
	separatorWidth = 60
)

// Reporter renders ranked speed test results as text.
type Reporter struct {
	w io.Writer
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Report ranks the outcomes of result and writes them in one piece.
func (r *Reporter) Report(result entity.RunResult) error {
	_, err := io.WriteString(r.w, Format(result))
	return err
}

// Format renders result. The same input always yields the same text.
func Format(result entity.RunResult) string {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, reportTitle)
	fmt.Fprintln(&buf, strings.Repeat("=", separatorWidth))
	if result.Omitted > 0 {
		fmt.Fprintf(&buf, "⚠️  %d endpoint(s) omitted: probe task failed\n", result.Omitted)
	}

	for i, outcome := range entity.RankOutcomes(result.Outcomes) {
		rank := i + 1
		if latency, ok := outcome.Latency(); ok {
			fmt.Fprintf(&buf, "#%d 🟢 %s - %dms\n", rank, outcome.Name(), latency.Milliseconds())
			fmt.Fprintf(&buf, "    URL: %s\n", outcome.URL())
		} else {
			msg, _ := outcome.ErrorMessage()
			fmt.Fprintf(&buf, "#%d 🔴 %s - failed\n", rank, outcome.Name())
			fmt.Fprintf(&buf, "    URL: %s\n", outcome.URL())
			fmt.Fprintf(&buf, "    Error: %s\n", msg)
		}
		fmt.Fprintln(&buf)
	}

	return buf.String()
}
