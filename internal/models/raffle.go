package models

// Participant represents a person entering the raffle, loaded fresh from
// each participants CSV upload. A batch replaces any prior in-memory list.
type Participant struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	EmployeeNumber string `json:"employeeNumber"`
	Email          string `json:"email"`
}

// Gift is a single giftable unit. A CSV row with uds > 1 may be expanded
// into several Gift values sharing category, prize and cost but with
// distinct ids.
type Gift struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Prize    string  `json:"prize"`
	Unit     int     `json:"unit"`
	Cost     float64 `json:"cost"`
}

// Winner is a committed pairing of one participant to one gift unit.
// It holds both by value; winner lists are replaced whole, never mutated.
type Winner struct {
	ID          string      `json:"id"`
	Participant Participant `json:"participant"`
	Gift        Gift        `json:"gift"`
}
