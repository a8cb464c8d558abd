package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/proxyip/internal/classifier"
)

// MarkdownWriter writes a Markdown report with a summary table, a mermaid
// pie chart of signals and a per-address table.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders results as Markdown.
func (w *MarkdownWriter) Write(results []classifier.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)
	s := Summarize(results)

	md.H1("Proxy IP Report")
	md.PlainText("")

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"Checked", strconv.Itoa(s.Total)},
			{"Proxy (cache)", strconv.Itoa(s.ByCache)},
			{"Proxy (Tor exit)", strconv.Itoa(s.ByTor)},
			{"Proxy (open port)", strconv.Itoa(s.ByPort)},
			{"Clean", strconv.Itoa(s.Clean)},
			{"Error", strconv.Itoa(s.Errors)},
		},
	})
	md.PlainText("")

	if s.Total > 0 {
		writePieChart(md, s)
	}
	writeAlert(md, s)

	md.H2("Results")
	md.PlainText("")
	if len(results) == 0 {
		md.PlainText("No addresses were checked.")
		md.PlainText("")
	} else {
		rows := make([][]string, len(results))
		for i, r := range results {
			detail := SignalLabel(r)
			if r.Error != "" {
				detail = r.Error
			}
			rows[i] = []string{"`" + r.IP + "`", Verdict(r), detail}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Address", "Verdict", "Signal"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [proxyip](https://github.com/nao1215/proxyip)*")

	return len(md.String()), md.Build()
}

func writePieChart(md *markdown.Markdown, s Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Verdicts"),
		piechart.WithShowData(true),
	)

	parts := []struct {
		label string
		n     int
	}{
		{"Cache", s.ByCache},
		{"Tor", s.ByTor},
		{"Port", s.ByPort},
		{"Clean", s.Clean},
		{"Error", s.Errors},
	}
	for _, sl := range parts {
		if sl.n > 0 {
			chart.LabelAndIntValue(sl.label, uint64(sl.n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func writeAlert(md *markdown.Markdown, s Summary) {
	switch {
	case s.Errors > 0:
		md.Warningf("%d address(es) could not be classified.", s.Errors)
	case s.Proxies > 0:
		md.Importantf("%d of %d address(es) look like proxies.", s.Proxies, s.Total)
	case s.Total > 0:
		md.Tip("No proxies detected.")
	default:
		md.Note("Nothing to report.")
	}
	md.PlainText("")
}
