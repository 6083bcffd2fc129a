package raffle

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"giftraffle/internal/models"
)

// ShuffleMode selects the permutation used before pairing.
type ShuffleMode int

const (
	// ShuffleUniform is an unbiased index-swap shuffle. Default.
	ShuffleUniform ShuffleMode = iota
	// ShuffleLegacy reproduces the historical comparator-based shuffle
	// (sort with a coin-flip comparator), which is not a uniform
	// permutation. Kept for output-compatibility with the old behavior.
	ShuffleLegacy
)

// Engine pairs participants with gifts at random.
type Engine struct {
	mode ShuffleMode
	rng  *rand.Rand
}

// NewEngine creates an Engine. A nil rng gets a time-seeded source.
func NewEngine(mode ShuffleMode, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{mode: mode, rng: rng}
}

// Assign independently shuffles both lists and pairs them by parallel index
// up to the smaller count. Surplus entries on the longer side are excluded
// from the result; that is the defined truncation policy, not an error.
// Inputs are never mutated and every call produces a fresh pairing.
func (e *Engine) Assign(participants []models.Participant, gifts []models.Gift) []models.Winner {
	ps := shuffled(e, participants)
	gs := shuffled(e, gifts)

	total := min(len(ps), len(gs))
	winners := make([]models.Winner, 0, total)
	for i := 0; i < total; i++ {
		winners = append(winners, models.Winner{
			ID:          gs[i].ID + "-" + ps[i].ID,
			Participant: ps[i],
			Gift:        gs[i],
		})
	}
	return winners
}

func shuffled[T any](e *Engine, src []T) []T {
	out := append([]T(nil), src...)
	switch e.mode {
	case ShuffleLegacy:
		sort.Slice(out, func(i, j int) bool { return e.rng.Float64() < 0.5 })
	default:
		e.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}

// ExpandUnits turns row-level gifts into independent gift units: a gift with
// Unit = N becomes N gifts sharing category, prize and cost, each with a
// distinct id. Gifts with Unit <= 1 pass through unchanged. This step is
// composable and may be skipped by configuration.
func ExpandUnits(gifts []models.Gift) []models.Gift {
	out := make([]models.Gift, 0, len(gifts))
	for _, g := range gifts {
		if g.Unit <= 1 {
			out = append(out, g)
			continue
		}
		for k := 1; k <= g.Unit; k++ {
			unit := g
			unit.ID = fmt.Sprintf("%s-%d", g.ID, k)
			unit.Unit = 1
			out = append(out, unit)
		}
	}
	return out
}
