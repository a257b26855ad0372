// Package report renders summaries of the node database and crawl history
// for human consumption.
//
// Two formats are supported: a plain text summary for the terminal and
// GitHub Flavored Markdown for documentation or dashboards. Reporting is
// purely observational; nothing in the crawl depends on it.
package report
