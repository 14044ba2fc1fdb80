// Package output renders CLI results: search hits, project and document
// listings, and status messages.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/docdex/docdex/internal/search"
	"github.com/docdex/docdex/internal/store"
	"github.com/docdex/docdex/internal/ui"
)

// Writer provides formatted output for the CLI.
type Writer struct {
	out    io.Writer
	styles ui.Styles
}

// New creates a Writer. Color is used only when out is a terminal.
func New(out io.Writer) *Writer {
	return &Writer{
		out:    out,
		styles: ui.GetStyles(!ui.IsTerminal(out)),
	}
}

// Success prints a success message.
// Write errors are intentionally ignored for console output.
func (w *Writer) Success(msg string) {
	_, _ = fmt.Fprintln(w.out, w.styles.Success.Render("✓")+" "+msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	_, _ = fmt.Fprintln(w.out, w.styles.Warning.Render("!")+" "+msg)
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	_, _ = fmt.Fprintln(w.out, w.styles.Error.Render("✗")+" "+msg)
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// SearchResults renders ranked search hits.
func (w *Writer) SearchResults(results []search.Result) {
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w.out, w.styles.Dim.Render("no results"))
		return
	}

	for i, r := range results {
		header := fmt.Sprintf("%d. %s", i+1,
			w.styles.Title.Render(fmt.Sprintf("%s #%d", r.Filename, r.ChunkIndex)))
		score := w.styles.Score.Render(fmt.Sprintf("%.4f", r.Score))
		_, _ = fmt.Fprintf(w.out, "%s  %s\n", header, score)

		snippet := strings.ReplaceAll(r.Snippet, "\n", " ")
		_, _ = fmt.Fprintf(w.out, "   %s\n", w.styles.Snippet.Render(snippet))
	}
}

// Projects renders a project listing.
func (w *Writer) Projects(projects []*store.Project) {
	if len(projects) == 0 {
		_, _ = fmt.Fprintln(w.out, w.styles.Dim.Render("no projects"))
		return
	}

	_, _ = fmt.Fprintf(w.out, "%-6s %-24s %s\n",
		w.styles.Label.Render("ID"),
		w.styles.Label.Render("NAME"),
		w.styles.Label.Render("DESCRIPTION"))
	for _, p := range projects {
		_, _ = fmt.Fprintf(w.out, "%-6d %-24s %s\n", p.ID, p.Name, p.Description)
	}
}

// Documents renders a document listing.
func (w *Writer) Documents(docs []*store.Document) {
	if len(docs) == 0 {
		_, _ = fmt.Fprintln(w.out, w.styles.Dim.Render("no documents"))
		return
	}

	_, _ = fmt.Fprintf(w.out, "%-6s %-32s %s\n",
		w.styles.Label.Render("ID"),
		w.styles.Label.Render("FILENAME"),
		w.styles.Label.Render("ADDED"))
	for _, d := range docs {
		_, _ = fmt.Fprintf(w.out, "%-6d %-32s %s\n",
			d.ID, d.Filename, d.CreatedAt.Format("2006-01-02 15:04"))
	}
}

// KeyValue renders an aligned key/value pair for status output.
func (w *Writer) KeyValue(key, value string) {
	_, _ = fmt.Fprintf(w.out, "%-16s %s\n", w.styles.Label.Render(key), value)
}
