// Package main provides the entry point for the meshinfo CLI.
//
// meshinfo crawls a mesh network for self-reported nodeinfo.json documents
// and maintains a persistent database of what every node publishes.
//
// Usage:
//
//	meshinfo crawl
//	meshinfo crawl --nodes-file nodes.txt --db ./nodeinfo_database.json
//	meshinfo stats --markdown
//
// See --help for all available options.
package main

// main is the entry point for meshinfo.
func main() {
	Execute()
}
