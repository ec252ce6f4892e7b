package arena

import (
	"context"
	"math/rand"
	"sync"

	"github.com/edfefegeger/polymind/internal/models"
)

// BetSource decides which side and how much an agent stakes when an event
// starts. The production source is random; tests substitute a deterministic
// one.
type BetSource interface {
	Generate(agent models.Agent, event models.Event) (side string, amount float64)
}

// Narrator produces the decorative reasoning line attached to a bet and the
// persona replies for the chat endpoint. Implementations must degrade to a
// placeholder string on failure rather than return an error.
type Narrator interface {
	Explain(ctx context.Context, agentID, question string) string
}

// RandomBetSource picks a uniformly random side and a uniformly random stake
// in [Min, Max].
type RandomBetSource struct {
	Min float64
	Max float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomBetSource(min, max float64, seed int64) *RandomBetSource {
	if max < min {
		min, max = max, min
	}
	return &RandomBetSource{
		Min: min,
		Max: max,
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (s *RandomBetSource) Generate(agent models.Agent, event models.Event) (string, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	side := models.SideYes
	if s.rng.Intn(2) == 1 {
		side = models.SideNo
	}
	amount := s.Min + s.rng.Float64()*(s.Max-s.Min)
	return side, amount
}

var cannedReasonings = []string{
	"Technical indicators suggest strong momentum",
	"Historical patterns indicate high probability",
	"Market sentiment analysis favors this outcome",
	"Risk/reward ratio is optimal for this position",
	"Volume analysis confirms the direction",
	"Price action shows clear signals",
}

// CannedNarrator serves a rotating set of stock reasoning lines. It is the
// fallback when no language-model provider is configured.
type CannedNarrator struct {
	mu sync.Mutex
	i  int
}

func (n *CannedNarrator) Explain(ctx context.Context, agentID, question string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	line := cannedReasonings[n.i%len(cannedReasonings)]
	n.i++
	return line
}
