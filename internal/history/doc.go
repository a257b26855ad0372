// Package history keeps a SQLite journal of crawl runs next to the JSON
// node database.
//
// The JSON database only holds the latest state per node; the journal
// answers "how did the last runs go" without replaying files: one row per
// run with its time span and node counts. The journal is advisory: a
// journal failure is logged and the crawl proceeds, because the JSON
// database is the artifact of record.
package history
