package storage

import (
	"database/sql"
	"embed"
	"strings"
	"time"

	"github.com/google/logger"

	"giftraffle/internal/models"
)

//go:embed schema.sql
var embeddedSchema embed.FS

const keyLastSavedAt = "last_saved_at"

// Store persists the committed winner list and its save timestamp in a local
// SQLite file. It is the only durable state of the application; participant
// and gift batches stay in memory.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InitSchema() error {
	b, err := embeddedSchema.ReadFile("schema.sql")
	if err != nil {
		return err
	}

	schema := strings.TrimSpace(string(b))
	_, err = s.db.Exec(schema)
	return err
}

// SaveWinners replaces the persisted winner list with ws and stamps
// last_saved_at, all in one transaction. The replace is always full, never
// an incremental upsert.
func (s *Store) SaveWinners(ws []models.Winner) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM winners`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO winners(id, participant_id, name, employee_number, email, gift_id, category, prize, cost)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, w := range ws {
		_, err := stmt.Exec(
			w.ID,
			w.Participant.ID, w.Participant.Name, w.Participant.EmployeeNumber, w.Participant.Email,
			w.Gift.ID, w.Gift.Category, w.Gift.Prize, w.Gift.Cost,
		)
		if err != nil {
			return err
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`
INSERT INTO meta(key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value
`, keyLastSavedAt, now)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ReadAll returns the full persisted winner snapshot. Read failures are
// absorbed: the store logs a diagnostic and reports an empty list so the
// read path never crashes a consumer.
func (s *Store) ReadAll() []models.Winner {
	ws, err := s.readAll()
	if err != nil {
		logger.Warningf("winners read failed, treating store as empty: %v", err)
		return []models.Winner{}
	}
	return ws
}

func (s *Store) readAll() ([]models.Winner, error) {
	rows, err := s.db.Query(`
SELECT id, participant_id, name, employee_number, email, gift_id, category, prize, cost
FROM winners
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ws := make([]models.Winner, 0)
	for rows.Next() {
		var w models.Winner
		err := rows.Scan(
			&w.ID,
			&w.Participant.ID, &w.Participant.Name, &w.Participant.EmployeeNumber, &w.Participant.Email,
			&w.Gift.ID, &w.Gift.Category, &w.Gift.Prize, &w.Gift.Cost,
		)
		if err != nil {
			return nil, err
		}
		w.Gift.Unit = 1
		ws = append(ws, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ws, nil
}

// LastSavedAt reports the timestamp of the last successful save, if any.
func (s *Store) LastSavedAt() (time.Time, bool) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, keyLastSavedAt).Scan(&v)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Warningf("last_saved_at read failed: %v", err)
		}
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		logger.Warningf("last_saved_at has malformed value %q: %v", v, err)
		return time.Time{}, false
	}
	return t, true
}

// Clear empties both the winners and the meta table in one transaction.
func (s *Store) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM winners`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM meta`); err != nil {
		return err
	}
	return tx.Commit()
}
