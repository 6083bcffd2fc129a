package parse

import (
	"errors"
	"fmt"
	"strings"

	"giftraffle/internal/models"
)

// ParticipantParser turns raw participants CSV text into a typed batch.
// The schema mode is fixed at construction.
type ParticipantParser struct {
	Schema ParticipantSchema
}

// Parse tokenizes and sanitizes the participants CSV. Rows with any required
// field blank after trimming are discarded and counted, not errored. The
// returned count is the number of discarded rows.
func (p ParticipantParser) Parse(text string) ([]models.Participant, int, error) {
	rows := Tokenize(text)
	if len(rows) == 0 {
		return nil, 0, errors.New("the participants file is empty")
	}

	data := rows
	switch p.Schema {
	case ParticipantSchemaSniffed:
		if looksLikeParticipantHeader(rows[0]) {
			data = rows[1:]
		}
	default:
		if err := ValidateHeader(rows[0], participantHeaders); err != nil {
			return nil, 0, fmt.Errorf("participants header: %w", err)
		}
		data = rows[1:]
	}

	var participants []models.Participant
	discarded := 0
	for i, row := range data {
		row = ClampToHeader(row, len(participantHeaders))
		name := fieldAt(row, 0)
		email := fieldAt(row, 1)
		employeeNumber := fieldAt(row, 2)
		if name == "" || email == "" || employeeNumber == "" {
			discarded++
			continue
		}
		participants = append(participants, models.Participant{
			ID:             fmt.Sprintf("%d-%s", i+1, name),
			Name:           name,
			EmployeeNumber: employeeNumber,
			Email:          email,
		})
	}
	return participants, discarded, nil
}

// looksLikeParticipantHeader sniffs the legacy header-optional format: any
// cell mentioning a known column keyword marks the row as a header.
func looksLikeParticipantHeader(row []string) bool {
	for _, cell := range row {
		c := strings.ToLower(strings.TrimSpace(cell))
		if strings.Contains(c, "name") || strings.Contains(c, "email") || strings.Contains(c, "employee") {
			return true
		}
	}
	return false
}

func fieldAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
