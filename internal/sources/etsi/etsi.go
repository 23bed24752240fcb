// Package etsi reads the ETSI work programme CSV export. The export may
// start with an Excel "sep=X" directive naming the field delimiter.
package etsi

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/agentstation/specmap/internal/transport"
	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/publishers"
)

// DefaultURL exports published and historical deliverables of all committees.
const DefaultURL = "https://www.etsi.org/?option=com_standardssearch&view=data&format=csv&page=1&search=&published=1&onApproval=1&withdrawn=1&historical=1"

// Column headers, matched case-insensitively.
const (
	columnDeliverable = "etsi deliverable"
	columnTitle       = "title"
	columnStatus      = "status"
	columnPDF         = "pdf link"
	columnDetails     = "details link"
)

// Source fetches the ETSI export.
type Source struct {
	client *transport.Client
	url    string
}

// New creates an ETSI source. An empty url selects DefaultURL.
func New(client *transport.Client, url string) *Source {
	if url == "" {
		url = DefaultURL
	}
	return &Source{client: client, url: url}
}

// ID implements sources.Source.
func (s *Source) ID() publishers.ID {
	return publishers.ETSI
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

// Parse extracts raw items from a CSV export. Link targets are resolved
// against base; the PDF link is preferred over the details page.
func Parse(base string, body []byte) ([]catalog.RawItem, error) {
	body = bytes.TrimPrefix(body, []byte("\ufeff"))

	delimiter := ','
	if line, rest, ok := bytes.Cut(body, []byte("\n")); ok {
		directive := strings.TrimSpace(string(line))
		if strings.HasPrefix(strings.ToLower(directive), "sep=") && len(directive) == 5 {
			delimiter = rune(directive[4])
			body = rest
		}
	}

	r := csv.NewReader(bytes.NewReader(body))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapResource("parse", "catalog", publishers.ETSI.String(), err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{columnDeliverable, columnTitle} {
		if _, ok := columns[required]; !ok {
			return nil, &errors.ResourceError{
				Operation: "parse",
				Resource:  "catalog",
				ID:        publishers.ETSI.String(),
				Message:   "missing column " + required,
			}
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var items []catalog.RawItem
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapResource("parse", "catalog", publishers.ETSI.String(), err)
		}

		deliverable := field(record, columnDeliverable)
		if deliverable == "" {
			continue
		}

		link := field(record, columnPDF)
		if link == "" {
			link = field(record, columnDetails)
		}

		items = append(items, catalog.RawItem{
			Number:    deliverable,
			Title:     field(record, columnTitle),
			Status:    field(record, columnStatus),
			URL:       transport.ResolveURL(base, link),
			SortIndex: len(items) + 1,
		})
	}

	return items, nil
}
