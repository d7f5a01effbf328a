package csvimport

import (
	"bytes"
	"encoding/csv"
)

// WriteRejectedCSV renders the reject list as a two-column CSV
// (email, reason) the user can download, correct, and re-upload.
func WriteRejectedCSV(invalid []RejectedRow) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"email", "reason"})
	for _, r := range invalid {
		w.Write([]string{r.Email, r.Reason})
	}
	w.Flush()

	return buf.String()
}
