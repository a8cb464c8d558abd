package report

import (
	"io"

	"github.com/nao1215/proxyip/internal/classifier"
)

// Writer renders a set of results.
type Writer interface {
	// Write renders results and returns the number of bytes written.
	Write(results []classifier.Result) (int, error)
}

// MultiWriter writes the same results to several Writers, e.g. the
// terminal and a report file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write writes to every writer in order and stops on the first error.
func (m *MultiWriter) Write(results []classifier.Result) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(results)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
