// Package report renders a checker result list for people and tools.
package report

import (
	"strings"

	"github.com/i18ncheck/i18ncheck/pkg/checker"
)

// Report wraps one analysis result.
type Report struct {
	URL        string              `json:"url,omitempty"`
	Assertions []checker.Assertion `json:"assertions"`
}

// New creates a report over an ordered assertion list.
func New(url string, assertions []checker.Assertion) *Report {
	return &Report{URL: url, Assertions: assertions}
}

// count returns the number of assertions at the given severity.
func (r *Report) count(sev checker.Severity) int {
	n := 0
	for _, a := range r.Assertions {
		if a.Severity == sev {
			n++
		}
	}
	return n
}

// ErrorCount returns the number of ERROR assertions.
func (r *Report) ErrorCount() int { return r.count(checker.Error) }

// WarningCount returns the number of WARNING assertions.
func (r *Report) WarningCount() int { return r.count(checker.Warning) }

// InfoCount returns the number of INFO assertions.
func (r *Report) InfoCount() int { return r.count(checker.Info) }

// IsClean returns true if there are no ERROR assertions.
func (r *Report) IsClean() bool { return r.ErrorCount() == 0 }

// line formats one assertion the way the text writer prints it.
func line(a checker.Assertion) string {
	var sb strings.Builder
	sb.WriteString(string(a.Severity))
	sb.WriteString("(")
	sb.WriteString(a.ID)
	sb.WriteString(")")
	if a.Title != "" {
		sb.WriteString(": ")
		sb.WriteString(a.Title)
	}
	if len(a.Contexts) > 0 {
		sb.WriteString(" [")
		sb.WriteString(strings.Join(a.Contexts, " | "))
		sb.WriteString("]")
	}
	return sb.String()
}
