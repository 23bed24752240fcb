// Package scte reads the SCTE standards API, a JSON document listing every
// standard with its number, title, status and download URL.
package scte

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/agentstation/specmap/internal/transport"
	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/publishers"
)

// DefaultURL is the public standards listing.
const DefaultURL = "https://www.scte.org/api/standards?format=json"

// Response is the API payload.
type Response struct {
	Standards []Standard `json:"standards"`
}

// Standard is one listed document.
type Standard struct {
	Number string `json:"number"`
	Title  string `json:"title"`
	Status string `json:"status"`
	URL    string `json:"url"`
}

// Source fetches the SCTE listing.
type Source struct {
	client *transport.Client
	url    string
}

// New creates an SCTE source. An empty url selects DefaultURL.
func New(client *transport.Client, url string) *Source {
	if url == "" {
		url = DefaultURL
	}
	return &Source{client: client, url: url}
}

// ID implements sources.Source.
func (s *Source) ID() publishers.ID {
	return publishers.SCTE
}

// URL implements sources.Source.
func (s *Source) URL() string {
	return s.url
}

// Fetch implements sources.Source.
func (s *Source) Fetch(ctx context.Context) ([]catalog.RawItem, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, err
	}
	return Parse(resp.URL, resp.Body)
}

// Parse extracts raw items from an API response. Download URLs are
// resolved against base.
func Parse(base string, body []byte) ([]catalog.RawItem, error) {
	var payload Response
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.WrapResource("parse", "catalog", publishers.SCTE.String(), err)
	}

	items := make([]catalog.RawItem, 0, len(payload.Standards))
	for _, std := range payload.Standards {
		number := strings.TrimSpace(std.Number)
		if number == "" {
			continue
		}
		items = append(items, catalog.RawItem{
			Number:    number,
			Title:     strings.TrimSpace(std.Title),
			Status:    strings.TrimSpace(std.Status),
			URL:       transport.ResolveURL(base, std.URL),
			SortIndex: len(items) + 1,
		})
	}
	return items, nil
}
