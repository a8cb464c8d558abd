// Package report renders classification results.
//
// Three writers share the Writer interface:
//   - SimpleWriter: aligned plain text for the terminal
//   - JSONWriter: a summary plus every result, for scripts
//   - MarkdownWriter: tables and a mermaid pie chart, for sharing
//
// All writers take a slice of classifier.Result in input order.
package report
