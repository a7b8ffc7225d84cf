package report

import (
	"fmt"
	"io"
)

// WriteText writes human-readable checker output to w.
func (r *Report) WriteText(w io.Writer) {
	for _, a := range r.Assertions {
		fmt.Fprintln(w, line(a))
	}
	if r.IsClean() {
		fmt.Fprintln(w, "No errors detected.")
	} else {
		fmt.Fprintf(w, "Check finished. Errors: %d, Warnings: %d, Info: %d\n",
			r.ErrorCount(), r.WarningCount(), r.InfoCount())
	}
}
