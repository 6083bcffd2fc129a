// Package export renders the committed winner list back to CSV text.
package export

import (
	"encoding/json"
	"strconv"
	"strings"

	"giftraffle/internal/models"
)

var winnerHeaders = []string{"name", "employeeNumber", "email", "prize", "category", "cost"}

// ToCSV renders a header line plus one line per winner. Every field,
// including the header fields, is JSON-string-quoted before joining with
// commas, so embedded commas and quotes in names or prizes survive a
// round trip. Output is byte-identical for identical input.
func ToCSV(winners []models.Winner) string {
	var b strings.Builder
	writeRecord(&b, winnerHeaders)
	for _, w := range winners {
		writeRecord(&b, []string{
			w.Participant.Name,
			w.Participant.EmployeeNumber,
			w.Participant.Email,
			w.Gift.Prize,
			w.Gift.Category,
			strconv.FormatFloat(w.Gift.Cost, 'f', -1, 64),
		})
	}
	return b.String()
}

func writeRecord(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		// json.Marshal of a string cannot fail.
		quoted, _ := json.Marshal(f)
		b.Write(quoted)
	}
	b.WriteByte('\n')
}
