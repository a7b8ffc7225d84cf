package report

import (
	"encoding/json"
	"io"

	"github.com/i18ncheck/i18ncheck/pkg/checker"
)

// JSONOutput is the JSON structure written to output files.
type JSONOutput struct {
	URL          string              `json:"url,omitempty"`
	Clean        bool                `json:"clean"`
	Assertions   []checker.Assertion `json:"assertions"`
	ErrorCount   int                 `json:"error_count"`
	WarningCount int                 `json:"warning_count"`
	InfoCount    int                 `json:"info_count"`
}

// WriteJSON writes the report in JSON format to w.
func (r *Report) WriteJSON(w io.Writer) error {
	out := JSONOutput{
		URL:          r.URL,
		Clean:        r.IsClean(),
		Assertions:   r.Assertions,
		ErrorCount:   r.ErrorCount(),
		WarningCount: r.WarningCount(),
		InfoCount:    r.InfoCount(),
	}
	if out.Assertions == nil {
		out.Assertions = []checker.Assertion{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
