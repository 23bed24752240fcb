// Package iso reads the ISO catalogue listing, an HTML table whose rows hold
// the reference (linked to the document page), the title and, for drafts and
// withdrawn documents, a stage label.
package iso

import (
	"bytes"
	"context"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/agentstation/specmap/internal/transport"
	"github.com/agentstation/specmap/pkg/catalog"
	"github.com/agentstation/specmap/pkg/errors"
	"github.com/agentstation/specmap/pkg/publishers"
)

// DefaultURL is the JTC 1/SC 29 (coding of audio, picture and multimedia) catalogue.
const DefaultURL = "https://www.iso.org/committee/45316/x/catalogue/"

// Source fetches the ISO catalogue.
type Source struct {
	client *transport.Client
	url    string
}

// New creates an ISO source. An empty url selects DefaultURL.
func New(client *transport.Client, url string) *Source {
	if url == "" {
		url = DefaultURL
	}
	return &Source{client: client, url: url}
}

// ID implements sources.Source.
func (s *Source) ID() publishers.ID {
	return publishers.ISO
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

// Parse extracts raw items from a catalogue page. Link targets are
// resolved against base.
func Parse(base string, body []byte) ([]catalog.RawItem, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, errors.WrapResource("parse", "catalog", publishers.ISO.String(), err)
	}

	var items []catalog.RawItem
	for _, row := range findAll(doc, atom.Tr) {
		cells := children(row, atom.Td)
		if len(cells) < 2 {
			continue
		}

		reference := text(cells[0])
		if reference == "" {
			continue
		}
		item := catalog.RawItem{
			Title:     reference,
			Summary:   text(cells[1]),
			SortIndex: len(items) + 1,
		}
		if a := first(cells[0], atom.A); a != nil {
			item.URL = transport.ResolveURL(base, attr(a, "href"))
		}
		if len(cells) > 2 {
			item.Status = text(cells[2])
		}
		items = append(items, item)
	}

	return items, nil
}

// findAll returns every descendant element of n with the given tag.
func findAll(n *html.Node, tag atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// children returns the direct child elements of n with the given tag.
func children(n *html.Node, tag atom.Atom) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == tag {
			out = append(out, c)
		}
	}
	return out
}

// first returns the first descendant element of n with the given tag.
func first(n *html.Node, tag atom.Atom) *html.Node {
	if found := findAll(n, tag); len(found) > 0 {
		return found[0]
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// text returns the whitespace-collapsed text content of n.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
