package parse

import "strings"

// ParticipantSchema selects how the participants CSV header is handled.
type ParticipantSchema int

const (
	// ParticipantSchemaStrict requires the exact header name,email,employeenumber.
	ParticipantSchemaStrict ParticipantSchema = iota
	// ParticipantSchemaSniffed detects an optional header row by keyword
	// presence and otherwise treats the first row as data.
	ParticipantSchemaSniffed
)

// GiftSchema describes which optional columns the gifts CSV carries.
type GiftSchema struct {
	HasUnit bool
	HasCost bool
}

// Headers returns the required gift header set, in order, for this schema.
func (s GiftSchema) Headers() []string {
	h := []string{"categoria", "producto"}
	if s.HasUnit {
		h = append(h, "uds")
	}
	if s.HasCost {
		h = append(h, "costo")
	}
	return h
}

var participantHeaders = []string{"name", "email", "employeenumber"}

// SchemaError reports every header problem of an upload at once: required
// headers that are absent, unexpected extras, and an out-of-order header row.
type SchemaError struct {
	Missing      []string
	Extra        []string
	OrderInvalid bool
}

func (e *SchemaError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing headers: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected headers: "+strings.Join(e.Extra, ", "))
	}
	if e.OrderInvalid {
		parts = append(parts, "header order is invalid")
	}
	if len(parts) == 0 {
		return "invalid header"
	}
	return strings.Join(parts, "; ")
}

func (e *SchemaError) hasProblems() bool {
	return len(e.Missing) > 0 || len(e.Extra) > 0 || e.OrderInvalid
}

// ValidateHeader checks the first tokenized row against the required header
// set. Headers are compared lower-cased and trimmed. All three checks run
// before reporting so the error enumerates every problem in one message.
func ValidateHeader(got, want []string) error {
	norm := make([]string, len(got))
	for i, h := range got {
		norm[i] = strings.ToLower(strings.TrimSpace(h))
	}

	gotSet := make(map[string]bool, len(norm))
	for _, h := range norm {
		gotSet[h] = true
	}
	wantSet := make(map[string]bool, len(want))
	for _, h := range want {
		wantSet[h] = true
	}

	se := &SchemaError{}
	for _, h := range want {
		if !gotSet[h] {
			se.Missing = append(se.Missing, h)
		}
	}
	for _, h := range norm {
		if !wantSet[h] {
			se.Extra = append(se.Extra, h)
		}
	}

	// Order is judged over the headers both sides know about, so a misordered
	// file is reported even when it also has missing or extra columns.
	var gotKnown, wantKnown []string
	for _, h := range norm {
		if wantSet[h] {
			gotKnown = append(gotKnown, h)
		}
	}
	for _, h := range want {
		if gotSet[h] {
			wantKnown = append(wantKnown, h)
		}
	}
	if len(gotKnown) != len(wantKnown) {
		// Only possible with duplicated headers.
		se.OrderInvalid = true
	}
	for i := 0; i < len(gotKnown) && i < len(wantKnown); i++ {
		if gotKnown[i] != wantKnown[i] {
			se.OrderInvalid = true
			break
		}
	}

	if se.hasProblems() {
		return se
	}
	return nil
}
