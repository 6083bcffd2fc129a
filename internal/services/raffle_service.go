package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/logger"

	"giftraffle/internal/export"
	"giftraffle/internal/models"
	"giftraffle/internal/parse"
	"giftraffle/internal/raffle"
	"giftraffle/internal/storage"
)

var (
	ErrNoParticipants = errors.New("no participants loaded")
	ErrNoGifts        = errors.New("no gifts loaded")
	ErrNoPresort      = errors.New("run the presort before saving")
)

// RaffleService owns the ephemeral upload batch (participants and gifts) and
// the presorted winner list. Only the winner list and its save timestamp are
// durable; the batch is replaced whole on every upload and dropped on reset.
type RaffleService struct {
	mu sync.RWMutex

	participantParser parse.ParticipantParser
	giftParser        parse.GiftParser
	engine            *raffle.Engine
	expandUnits       bool
	store             *storage.Store

	participants []models.Participant
	gifts        []models.Gift
	winners      []models.Winner
}

// NewRaffleService creates the service with its pipeline configuration fixed
// up front.
func NewRaffleService(pp parse.ParticipantParser, gp parse.GiftParser, engine *raffle.Engine, expandUnits bool, store *storage.Store) *RaffleService {
	return &RaffleService{
		participantParser: pp,
		giftParser:        gp,
		engine:            engine,
		expandUnits:       expandUnits,
		store:             store,
	}
}

// LoadParticipants parses the uploaded CSV text and replaces the in-memory
// participant batch. On failure the previous batch is kept untouched.
// Returns the number of loaded participants and of discarded rows.
func (s *RaffleService) LoadParticipants(text string) (int, int, error) {
	participants, discarded, err := s.participantParser.Parse(text)
	if err != nil {
		return 0, 0, err
	}
	if len(participants) == 0 {
		return 0, discarded, errors.New("no valid participants in the file")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.participants = participants
	s.winners = nil
	logger.Infof("loaded %d participants (%d rows discarded)", len(participants), discarded)
	return len(participants), discarded, nil
}

// LoadGifts parses the uploaded CSV text and replaces the in-memory gift
// batch, expanding uds multiplicities into independent gift units when
// configured. On failure the previous batch is kept untouched.
func (s *RaffleService) LoadGifts(text string) (int, int, error) {
	res, err := s.giftParser.Parse(text)
	if err != nil {
		return 0, 0, err
	}
	if len(res.Gifts) == 0 {
		return 0, res.DiscardedRows, errors.New("no valid gifts in the file")
	}

	gifts := res.Gifts
	if s.expandUnits {
		gifts = raffle.ExpandUnits(gifts)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gifts = gifts
	s.winners = nil
	logger.Infof("loaded %d gift units (%d rows discarded)", len(gifts), res.DiscardedRows)
	return len(gifts), res.DiscardedRows, nil
}

// Presort runs the assignment engine over the current batch and replaces the
// in-memory winner list atomically. Nothing is persisted until SaveWinners.
func (s *RaffleService) Presort() ([]models.Winner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.participants) == 0 {
		return nil, ErrNoParticipants
	}
	if len(s.gifts) == 0 {
		return nil, ErrNoGifts
	}

	s.winners = s.engine.Assign(s.participants, s.gifts)
	logger.Infof("presorted %d winners from %d participants and %d gifts",
		len(s.winners), len(s.participants), len(s.gifts))
	return append([]models.Winner(nil), s.winners...), nil
}

// SaveWinners persists the presorted winner list. A write failure is
// surfaced to the caller and leaves the in-memory list untouched.
func (s *RaffleService) SaveWinners() error {
	s.mu.RLock()
	winners := s.winners
	s.mu.RUnlock()

	if len(winners) == 0 {
		return ErrNoPresort
	}
	if err := s.store.SaveWinners(winners); err != nil {
		return fmt.Errorf("saving winners: %w", err)
	}
	logger.Infof("saved %d winners", len(winners))
	return nil
}

// Reset drops the in-memory batch and empties the persistent store.
func (s *RaffleService) Reset() error {
	s.mu.Lock()
	s.participants = nil
	s.gifts = nil
	s.winners = nil
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}
	logger.Infof("raffle state reset")
	return nil
}

// PersistedWinners returns the durable winner snapshot for the public view.
func (s *RaffleService) PersistedWinners() []models.Winner {
	return s.store.ReadAll()
}

// LastSavedAt reports when the winner list was last persisted, if ever.
func (s *RaffleService) LastSavedAt() (time.Time, bool) {
	return s.store.LastSavedAt()
}

// ExportCSV renders the current winner list as CSV, falling back to the
// persisted snapshot when no presort is held in memory.
func (s *RaffleService) ExportCSV() (string, error) {
	s.mu.RLock()
	winners := s.winners
	s.mu.RUnlock()

	if len(winners) == 0 {
		winners = s.store.ReadAll()
	}
	if len(winners) == 0 {
		return "", errors.New("no winners to export")
	}
	return export.ToCSV(winners), nil
}
