package report

import (
	"fmt"
	"io"
)

// Writer renders a Summary to some destination.
//
// Design decision: an interface rather than format flags on one type, so
// the stats command can pick a renderer and treat it uniformly, and new
// formats slot in without touching callers.
type Writer interface {
	// Write renders the summary. Returns the number of bytes written and
	// any error encountered.
	Write(summary *Summary) (int, error)
}

// TextWriter renders a Summary as a plain text block for the terminal.
type TextWriter struct {
	output io.Writer
}

// NewTextWriter creates a TextWriter that writes to output.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{output: output}
}

// Write implements Writer.
func (w *TextWriter) Write(summary *Summary) (int, error) {
	total := 0

	write := func(format string, args ...any) error {
		n, err := fmt.Fprintf(w.output, format, args...)
		total += n
		return err
	}

	if err := write("Node database: %s\n", summary.DatabasePath); err != nil {
		return total, err
	}
	if err := write("Generated:     %s\n\n", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")); err != nil {
		return total, err
	}
	if err := write("Nodes:         %d\n", summary.TotalNodes); err != nil {
		return total, err
	}
	if err := write("With nodeinfo: %d (%.1f%%)\n", summary.NodesWithInfo, summary.Coverage()); err != nil {
		return total, err
	}

	if last := summary.LastRun(); last != nil {
		if err := write("\nLast crawl:    %s (%d nodes probed, %d with nodeinfo)\n",
			last.StartedAt.Format("2006-01-02 15:04:05 MST"),
			last.NodesTotal, last.NodesWithInfo); err != nil {
			return total, err
		}
	}
	return total, nil
}
