package services

import (
	"database/sql"
	"errors"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/logger"
	_ "github.com/mattn/go-sqlite3"

	"giftraffle/internal/parse"
	"giftraffle/internal/raffle"
	"giftraffle/internal/storage"
)

func TestMain(m *testing.M) {
	l := logger.Init("services-test", false, false, io.Discard)
	code := m.Run()
	l.Close()
	os.Exit(code)
}

func newTestService(t *testing.T) *RaffleService {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	store := storage.New(db)
	if err := store.InitSchema(); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	return NewRaffleService(
		parse.ParticipantParser{Schema: parse.ParticipantSchemaStrict},
		parse.GiftParser{Schema: parse.GiftSchema{HasUnit: true, HasCost: true}},
		raffle.NewEngine(raffle.ShuffleUniform, rand.New(rand.NewSource(42))),
		true,
		store,
	)
}

const participantsCSV = "name,email,employeeNumber\nAna,ana@example.com,E001\nLuis,luis@example.com,E002"

func TestRaffleService_FullWorkflow(t *testing.T) {
	s := newTestService(t)

	loaded, discarded, err := s.LoadParticipants(participantsCSV)
	if err != nil {
		t.Fatalf("LoadParticipants: %v", err)
	}
	if loaded != 2 || discarded != 0 {
		t.Fatalf("expected 2 loaded / 0 discarded, got %d / %d", loaded, discarded)
	}

	loaded, discarded, err = s.LoadGifts("categoria,producto,uds,costo\nElectrónica,Audífonos,1,500")
	if err != nil {
		t.Fatalf("LoadGifts: %v", err)
	}
	if loaded != 1 || discarded != 0 {
		t.Fatalf("expected 1 loaded / 0 discarded, got %d / %d", loaded, discarded)
	}

	winners, err := s.Presort()
	if err != nil {
		t.Fatalf("Presort: %v", err)
	}
	if len(winners) != 1 {
		t.Fatalf("expected exactly 1 winner with 2 participants and 1 gift, got %d", len(winners))
	}
	w := winners[0]
	if w.Gift.Category != "Electrónica" || w.Gift.Prize != "Audífonos" || w.Gift.Cost != 500 {
		t.Fatalf("unexpected gift on winner: %+v", w.Gift)
	}
	if w.Participant.Name != "Ana" && w.Participant.Name != "Luis" {
		t.Fatalf("unexpected participant on winner: %+v", w.Participant)
	}

	if err := s.SaveWinners(); err != nil {
		t.Fatalf("SaveWinners: %v", err)
	}
	persisted := s.PersistedWinners()
	if len(persisted) != 1 || persisted[0].ID != w.ID {
		t.Fatalf("unexpected persisted winners: %+v", persisted)
	}
	if _, ok := s.LastSavedAt(); !ok {
		t.Fatal("expected a last-saved timestamp")
	}

	csvText, err := s.ExportCSV()
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if !strings.Contains(csvText, `"Audífonos"`) {
		t.Fatalf("expected prize in export, got %q", csvText)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := s.PersistedWinners(); len(got) != 0 {
		t.Fatalf("expected empty store after reset, got %d winners", len(got))
	}
	if _, err := s.Presort(); !errors.Is(err, ErrNoParticipants) {
		t.Fatalf("expected ErrNoParticipants after reset, got %v", err)
	}
}

func TestRaffleService_UploadErrors(t *testing.T) {
	t.Run("save without presort", func(t *testing.T) {
		s := newTestService(t)
		if err := s.SaveWinners(); !errors.Is(err, ErrNoPresort) {
			t.Fatalf("expected ErrNoPresort, got %v", err)
		}
	})

	t.Run("zero surviving gifts is a hard error", func(t *testing.T) {
		s := newTestService(t)
		_, discarded, err := s.LoadGifts("categoria,producto,uds,costo\n,Audífonos,1,500")
		if err == nil {
			t.Fatal("expected an error for zero surviving gifts")
		}
		if discarded != 1 {
			t.Fatalf("expected 1 discarded row, got %d", discarded)
		}
	})

	t.Run("failed upload keeps previous batch", func(t *testing.T) {
		s := newTestService(t)
		if _, _, err := s.LoadParticipants(participantsCSV); err != nil {
			t.Fatalf("LoadParticipants: %v", err)
		}
		if _, _, err := s.LoadGifts("categoria,producto,uds,costo\nElectrónica,Audífonos,1,500"); err != nil {
			t.Fatalf("LoadGifts: %v", err)
		}

		// Type-corrupted upload must abort without touching the loaded batch.
		if _, _, err := s.LoadGifts("categoria,producto,uds,costo\nElectrónica,Audífonos,abc,500"); err == nil {
			t.Fatal("expected an error for malformed uds")
		}
		winners, err := s.Presort()
		if err != nil {
			t.Fatalf("Presort after failed upload: %v", err)
		}
		if len(winners) != 1 {
			t.Fatalf("expected the previous gift batch to survive, got %d winners", len(winners))
		}
	})

	t.Run("unit expansion multiplies gift units", func(t *testing.T) {
		s := newTestService(t)
		loaded, _, err := s.LoadGifts("categoria,producto,uds,costo\nHogar,Cafetera,3,350")
		if err != nil {
			t.Fatalf("LoadGifts: %v", err)
		}
		if loaded != 3 {
			t.Fatalf("expected 3 gift units after expansion, got %d", loaded)
		}
	})
}
