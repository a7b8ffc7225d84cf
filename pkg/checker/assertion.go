package checker

import (
	"fmt"
	"sort"
)

// Severity levels for checker assertions.
type Severity string

const (
	Info    Severity = "INFO"
	Warning Severity = "WARNING"
	Error   Severity = "ERROR"
	Message Severity = "MESSAGE"
)

// severityRank fixes the tie-break order used when sorting assertions.
// The rank follows declaration order, not alphabetic order.
var severityRank = map[Severity]int{
	Info:    0,
	Warning: 1,
	Error:   2,
	Message: 3,
}

// Rank returns the ordering rank of the severity. Unknown severities
// sort after all known ones.
func (s Severity) Rank() int {
	r, ok := severityRank[s]
	if !ok {
		return len(severityRank)
	}
	return r
}

// Assertion is a single checker finding: an informational fact or a
// rule violation. Title and Description come from the template catalog
// and may be empty when no definition exists for the id+severity pair.
type Assertion struct {
	ID          string   `json:"id"`
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Contexts    []string `json:"contexts"`
}

// NewAssertion builds an assertion. An empty id, empty severity, or nil
// context slice is a programming error and panics immediately rather
// than producing a half-formed finding.
func NewAssertion(id string, sev Severity, contexts []string) Assertion {
	if id == "" {
		panic("checker: assertion id must not be empty")
	}
	if sev == "" {
		panic("checker: assertion severity must not be empty")
	}
	if contexts == nil {
		panic("checker: assertion contexts must not be nil (use an empty slice)")
	}
	return Assertion{ID: id, Severity: sev, Contexts: contexts}
}

// Equal reports whether two assertions refer to the same finding.
// Identity is the id alone; title, description, and contexts are
// informational and excluded so comparisons survive template changes.
func (a Assertion) Equal(b Assertion) bool {
	return a.ID == b.ID
}

// Less defines the total order on assertions: id lexicographically,
// then severity by declaration rank.
func (a Assertion) Less(b Assertion) bool {
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	return a.Severity.Rank() < b.Severity.Rank()
}

func (a Assertion) String() string {
	return fmt.Sprintf("%s(%s)", a.Severity, a.ID)
}

// SortAssertions orders a result list in place per the Assertion total order.
func SortAssertions(list []Assertion) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Less(list[j])
	})
}
