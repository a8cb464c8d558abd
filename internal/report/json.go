package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/proxyip/internal/classifier"
)

// JSONWriter writes a JSONReport document.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string

	// version is copied into the document when set.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output with the given prefix and indent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the tool version in the document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// JSONReport is the document written by JSONWriter.
type JSONReport struct {
	Version string              `json:"version,omitempty"`
	Summary Summary             `json:"summary"`
	Results []classifier.Result `json:"results"`
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
// Output is compact unless an indent option is given.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders results as a single JSON document followed by a newline.
func (w *JSONWriter) Write(results []classifier.Result) (int, error) {
	if results == nil {
		results = []classifier.Result{}
	}
	doc := JSONReport{
		Version: w.version,
		Summary: Summarize(results),
		Results: results,
	}

	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(doc, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return 0, err
	}

	return w.output.Write(append(data, '\n'))
}
