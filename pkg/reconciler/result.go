package reconciler

import (
	"fmt"
)

// Outcome describes what happened to one observation.
type Outcome struct {
	Decision  Decision
	Key       string
	Reason    string
	ClaimedBy string // key holding the URL, for DecisionSkipDuplicateURL
}

// Accepted reports whether the observation is now the entry for its key.
func (o Outcome) Accepted() bool {
	return o.Decision == DecisionInsert || o.Decision == DecisionReplace
}

// Stats counts reconciliation outcomes for one catalog.
type Stats struct {
	Observed      int `json:"observed" yaml:"observed"`
	Inserted      int `json:"inserted" yaml:"inserted"`
	Replaced      int `json:"replaced" yaml:"replaced"`
	Kept          int `json:"kept" yaml:"kept"`
	DuplicateURLs int `json:"duplicate_urls" yaml:"duplicate_urls"`
}

// Skipped returns the number of observations that did not become entries.
func (s Stats) Skipped() int {
	return s.Kept + s.DuplicateURLs
}

// record counts one outcome.
func (s *Stats) record(d Decision) {
	s.Observed++
	switch d {
	case DecisionInsert:
		s.Inserted++
	case DecisionReplace:
		s.Replaced++
	case DecisionKeep:
		s.Kept++
	case DecisionSkipDuplicateURL:
		s.DuplicateURLs++
	}
}

// String returns a one-line summary.
func (s Stats) String() string {
	return fmt.Sprintf("%d observed, %d inserted, %d replaced, %d kept, %d duplicate URLs",
		s.Observed, s.Inserted, s.Replaced, s.Kept, s.DuplicateURLs)
}
