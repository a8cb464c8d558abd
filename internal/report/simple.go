package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/proxyip/internal/classifier"
)

const ruleWidth = 60

// SimpleWriter writes one aligned line per address followed by a summary.
type SimpleWriter struct {
	baseWriter

	// proxiesOnly hides clean addresses.
	proxiesOnly bool

	// verbose adds the check timestamp to every line.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithProxiesOnly hides addresses classified as clean.
func WithProxiesOnly(only bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.proxiesOnly = only
	}
}

// WithVerbose adds the check time to each line.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders results as text.
func (w *SimpleWriter) Write(results []classifier.Result) (int, error) {
	var sb strings.Builder

	width := len("ADDRESS")
	for _, r := range results {
		width = max(width, len(r.IP))
	}

	fmt.Fprintf(&sb, "%-*s  %-7s  %s\n", width, "ADDRESS", "VERDICT", "SIGNAL")
	for _, r := range results {
		if w.proxiesOnly && !r.Proxy && r.Error == "" {
			continue
		}
		detail := SignalLabel(r)
		if r.Error != "" {
			detail = r.Error
		}
		line := fmt.Sprintf("%-*s  %-7s  %s", width, r.IP, Verdict(r), detail)
		if w.verbose && !r.CheckedAt.IsZero() {
			line += "  (" + r.CheckedAt.Format("2006-01-02 15:04:05 MST") + ")"
		}
		sb.WriteString(strings.TrimRight(line, " "))
		sb.WriteString("\n")
	}

	s := Summarize(results)
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%d checked, %d proxy (cache %d, tor %d, port %d), %d clean, %d error\n",
		s.Total, s.Proxies, s.ByCache, s.ByTor, s.ByPort, s.Clean, s.Errors)

	return io.WriteString(w.output, sb.String())
}
