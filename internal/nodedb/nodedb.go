package nodedb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/juju/clock"

	"github.com/nao1215/meshinfo/internal/prober"
)

// Record is one node's entry in the database.
type Record struct {
	// LastCrawl is the Unix timestamp (seconds, fractional) of the run
	// that last probed this node.
	LastCrawl float64 `json:"last_crawl"`

	// NodeInfo is the node's parsed nodeinfo document. Nil means the node
	// was probed and found to have no usable document, which is distinct
	// from the node not appearing in the database at all.
	NodeInfo any `json:"nodeinfo"`
}

// Database is the in-memory copy of the persisted node database. It is
// exclusively owned by the merge phase of a run; there is no concurrent
// writer, so no locking.
type Database struct {
	path    string
	records map[string]Record
	clk     clock.Clock
}

// Option configures a Database.
type Option func(*Database)

// WithClock substitutes the wall clock, letting tests pin timestamps.
func WithClock(clk clock.Clock) Option {
	return func(db *Database) {
		db.clk = clk
	}
}

// New creates an empty database that will persist to path.
func New(path string, opts ...Option) *Database {
	db := &Database{
		path:    path,
		records: make(map[string]Record),
	}
	for _, opt := range opts {
		opt(db)
	}
	if db.clk == nil {
		db.clk = clock.WallClock
	}
	return db
}

// Load reads the database file at path. A missing file is not an error and
// yields an empty database; any other read or parse failure is, because
// silently starting empty would discard the accumulated state on the next
// save.
func Load(path string, opts ...Option) (*Database, error) {
	db := New(path, opts...)

	data, err := os.ReadFile(path) //nolint:gosec // user-provided database path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return db, nil
		}
		return nil, fmt.Errorf("failed to read database %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &db.records); err != nil {
		return nil, fmt.Errorf("failed to parse database %s: %w", path, err)
	}
	return db, nil
}

// Merge overwrites the record of every probed node with this run's outcome,
// all stamped with the same merge time. Nodes absent from the outcome set
// are left untouched.
func (db *Database) Merge(outcomes []prober.Outcome) {
	now := float64(db.clk.Now().UnixNano()) / 1e9
	for _, o := range outcomes {
		db.records[o.Node] = Record{
			LastCrawl: now,
			NodeInfo:  o.NodeInfo,
		}
	}
}

// Save persists the database, replacing the previous file content wholesale.
//
// The write goes to a temporary file in the target directory which is then
// renamed over the destination, so a failed or interrupted write leaves the
// prior file intact. Persistence failure is the one fatal error of a crawl
// run: the run's results exist nowhere else.
func (db *Database) Save() error {
	// encoding/json writes map keys sorted, which keeps the artifact
	// diff-friendly across runs.
	data, err := json.MarshalIndent(db.records, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode database: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(db.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".nodeinfo-db-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary database file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write database: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close database: %w", err)
	}

	if err := os.Rename(tmpPath, db.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace database %s: %w", db.path, err)
	}
	return nil
}

// Path returns the database file path.
func (db *Database) Path() string {
	return db.path
}

// Len returns the number of node records.
func (db *Database) Len() int {
	return len(db.records)
}

// Record returns the record for a node and whether it exists.
func (db *Database) Record(node string) (Record, bool) {
	r, ok := db.records[node]
	return r, ok
}

// Nodes returns all node addresses in sorted order.
func (db *Database) Nodes() []string {
	nodes := make([]string, 0, len(db.records))
	for node := range db.records {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

// CountWithNodeInfo returns how many records carry a nodeinfo document.
func (db *Database) CountWithNodeInfo() int {
	count := 0
	for _, r := range db.records {
		if r.NodeInfo != nil {
			count++
		}
	}
	return count
}
