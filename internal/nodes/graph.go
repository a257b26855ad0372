package nodes

import (
	"context"
	"net/http"
)

// GraphSource reads node addresses from a network map graph document of the
// form {"nodes": [{"id": "<address>"}, ...]}, as published by the public
// mesh map services.
type GraphSource struct {
	// URL is the graph document endpoint.
	URL string

	// Client performs the request. Nil means http.DefaultClient; callers
	// normally pass a client with a timeout.
	Client *http.Client

	// UserAgent is sent with the request.
	UserAgent string
}

// Name implements Source.
func (s *GraphSource) Name() string {
	return "graph"
}

// Nodes implements Source.
func (s *GraphSource) Nodes(ctx context.Context) ([]string, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	var doc struct {
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
	}
	if err := getJSON(ctx, client, s.URL, s.UserAgent, &doc); err != nil {
		return nil, err
	}

	addrs := make([]string, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		addrs = append(addrs, n.ID)
	}
	return addrs, nil
}
