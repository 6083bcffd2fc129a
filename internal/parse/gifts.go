package parse

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"giftraffle/internal/models"
)

// reNonNumeric strips currency symbols, spaces and thousands separators
// before cost parsing, keeping digits, the decimal point and the sign.
var reNonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// GiftParser turns raw gifts CSV text into a typed batch. The column schema
// is fixed at construction.
type GiftParser struct {
	Schema GiftSchema
}

// GiftParseResult carries the surviving gifts and the count of rows dropped
// for blank required fields. DiscardedRows > 0 is a warning for the caller,
// not an error.
type GiftParseResult struct {
	Gifts         []models.Gift
	DiscardedRows int
}

// Parse tokenizes, validates and sanitizes the gifts CSV.
//
// The error policy is deliberately asymmetric: a blank required field means
// sparse data and silently discards the row, while a present but malformed
// uds or costo value means the wrong template was uploaded and aborts the
// whole operation with a row-numbered error.
func (p GiftParser) Parse(text string) (GiftParseResult, error) {
	var res GiftParseResult

	rows := Tokenize(text)
	if len(rows) == 0 {
		return res, errors.New("the gifts file is empty")
	}

	headers := p.Schema.Headers()
	if err := ValidateHeader(rows[0], headers); err != nil {
		return res, fmt.Errorf("gifts header: %w", err)
	}

	unitCol, costCol := -1, -1
	col := 2
	if p.Schema.HasUnit {
		unitCol = col
		col++
	}
	if p.Schema.HasCost {
		costCol = col
	}

	for i, row := range rows[1:] {
		rowNum := i + 1
		row = ClampToHeader(row, len(headers))
		if len(row) < len(headers) {
			return GiftParseResult{}, fmt.Errorf("row %d: expected %d fields, got %d", rowNum, len(headers), len(row))
		}

		category := fieldAt(row, 0)
		prize := fieldAt(row, 1)
		unitsRaw := "1"
		if unitCol >= 0 {
			unitsRaw = fieldAt(row, unitCol)
		}
		costRaw := "0"
		if costCol >= 0 {
			costRaw = fieldAt(row, costCol)
		}

		if category == "" || prize == "" || unitsRaw == "" || costRaw == "" {
			res.DiscardedRows++
			continue
		}

		unit, err := strconv.Atoi(unitsRaw)
		if err != nil || unit < 1 {
			return GiftParseResult{}, fmt.Errorf("row %d: uds must be an integer >= 1, got %q", rowNum, unitsRaw)
		}

		cost, err := strconv.ParseFloat(reNonNumeric.ReplaceAllString(costRaw, ""), 64)
		if err != nil || math.IsNaN(cost) || math.IsInf(cost, 0) {
			return GiftParseResult{}, fmt.Errorf("row %d: costo must be a number, got %q", rowNum, costRaw)
		}

		res.Gifts = append(res.Gifts, models.Gift{
			ID:       fmt.Sprintf("%d-%s-%s", rowNum, category, prize),
			Category: category,
			Prize:    prize,
			Unit:     unit,
			Cost:     cost,
		})
	}
	return res, nil
}
