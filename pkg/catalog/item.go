// Package catalog defines the records that flow through a resolution run:
// the raw rows a source extracts from a publisher catalog, the lifecycle
// vocabulary shared by every publisher, and the reconciled Entry.
package catalog

// RawItem is one document row as listed by a publisher catalog.
// Sources produce items in catalog order; SortIndex is 1-based and stable.
type RawItem struct {
	Title     string `json:"title" yaml:"title"`                         // Raw catalog title
	Number    string `json:"number,omitempty" yaml:"number,omitempty"`   // Standard number, for catalogs that split it from the title
	Summary   string `json:"summary,omitempty" yaml:"summary,omitempty"` // Human summary or alternate title
	Status    string `json:"status,omitempty" yaml:"status,omitempty"`   // Publisher-specific status label
	URL       string `json:"url" yaml:"url"`                             // Absolute document URL
	SortIndex int    `json:"sort_index" yaml:"sort_index"`               // Position in the source catalog
}

// Identifier returns the text the title grammar is applied to.
func (r RawItem) Identifier() string {
	if r.Number != "" {
		return r.Number
	}
	return r.Title
}

// DisplayTitle prefers the human summary over the raw catalog title.
func (r RawItem) DisplayTitle() string {
	if r.Summary != "" {
		return r.Summary
	}
	return r.Title
}

// Index assigns 1-based sort indexes to items in their current order.
// Items that already carry an index keep it.
func Index(items []RawItem) []RawItem {
	for i := range items {
		if items[i].SortIndex == 0 {
			items[i].SortIndex = i + 1
		}
	}
	return items
}
