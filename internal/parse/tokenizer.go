package parse

import "strings"

// Tokenize splits raw CSV text into rows of trimmed fields. Lines that are
// blank after trimming are dropped and do not count as data rows. Within a
// line a double quote toggles an inside-quotes mode during which commas are
// literal content, which tolerates currency values like "1,234.56". The
// quote characters themselves are not part of the field value.
func Tokenize(text string) [][]string {
	text = strings.TrimPrefix(text, "\ufeff")

	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, splitLine(line))
	}
	return rows
}

func splitLine(line string) []string {
	var fields []string
	var b strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(b.String()))
	return fields
}

// ClampToHeader folds surplus tail fields back into the final column when a
// row tokenized to more fields than the header has. This recovers rows whose
// last numeric column contains an unescaped thousands separator. Rows with
// n or fewer fields are returned unchanged.
func ClampToHeader(fields []string, n int) []string {
	if n <= 0 || len(fields) <= n {
		return fields
	}
	clamped := make([]string, n)
	copy(clamped, fields[:n-1])
	clamped[n-1] = strings.Join(fields[n-1:], ",")
	return clamped
}
