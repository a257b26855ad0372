// Package config holds the crawler configuration: resource bounds for
// sandboxed requests, the worker pool width, discovery endpoints, and file
// locations.
//
// Configuration is assembled from defaults, an optional YAML file
// (.meshinfo, searched in the working directory and then the home
// directory), and CLI flags, in that order of increasing precedence. The
// resulting Config value is passed through the application by dependency
// injection; there is no global configuration state.
package config
