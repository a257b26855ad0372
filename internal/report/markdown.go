package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
)

// MarkdownWriter renders a Summary as GitHub Flavored Markdown, suitable
// for dashboards and documentation.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that writes to output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Mesh Node Database")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Database", "`" + summary.DatabasePath + "`"},
			{"Generated", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Nodes", strconv.Itoa(summary.TotalNodes)},
			{"With nodeinfo", fmt.Sprintf("%d (%.1f%%)", summary.NodesWithInfo, summary.Coverage())},
		},
	})
	md.PlainText("")

	w.writeRuns(md, summary)

	return len(md.String()), md.Build()
}

// writeRuns writes the recent crawl run table, if any runs are recorded.
func (w *MarkdownWriter) writeRuns(md *markdown.Markdown, summary *Summary) {
	if len(summary.RecentRuns) == 0 {
		return
	}

	md.H2("Recent Crawls")
	md.PlainText("")

	rows := make([][]string, 0, len(summary.RecentRuns))
	for _, run := range summary.RecentRuns {
		elapsed := run.FinishedAt.Sub(run.StartedAt).Round(time.Second)
		rows = append(rows, []string{
			run.StartedAt.Format("2006-01-02 15:04:05"),
			elapsed.String(),
			strconv.Itoa(run.NodesTotal),
			strconv.Itoa(run.NodesWithInfo),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Started", "Duration", "Nodes", "With nodeinfo"},
		Rows:   rows,
	})
	md.PlainText("")
}
