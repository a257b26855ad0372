package report

import (
	"time"

	"github.com/nao1215/meshinfo/internal/history"
	"github.com/nao1215/meshinfo/internal/nodedb"
)

// Summary is a point-in-time view of the node database and recent crawl
// runs, assembled for rendering.
type Summary struct {
	// DatabasePath is where the node database lives.
	DatabasePath string

	// GeneratedAt is when the summary was assembled.
	GeneratedAt time.Time

	// TotalNodes is the number of node records in the database.
	TotalNodes int

	// NodesWithInfo is how many records carry a nodeinfo document.
	NodesWithInfo int

	// RecentRuns holds the most recent crawl runs, newest first. May be
	// empty when no journal exists.
	RecentRuns []history.Run
}

// NewSummary assembles a Summary from the database and journal contents.
func NewSummary(db *nodedb.Database, runs []history.Run, now time.Time) *Summary {
	return &Summary{
		DatabasePath:  db.Path(),
		GeneratedAt:   now,
		TotalNodes:    db.Len(),
		NodesWithInfo: db.CountWithNodeInfo(),
		RecentRuns:    runs,
	}
}

// Coverage returns the share of nodes publishing a nodeinfo document as a
// percentage, 0 when the database is empty.
func (s *Summary) Coverage() float64 {
	if s.TotalNodes == 0 {
		return 0
	}
	return 100 * float64(s.NodesWithInfo) / float64(s.TotalNodes)
}

// LastRun returns the most recent run, or nil when none is recorded.
func (s *Summary) LastRun() *history.Run {
	if len(s.RecentRuns) == 0 {
		return nil
	}
	return &s.RecentRuns[0]
}
