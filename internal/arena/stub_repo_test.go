package arena

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/edfefegeger/polymind/internal/models"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
type stubRepo struct {
	agents  map[string]models.Agent
	events  map[uint64]models.Event
	bets    map[uint64]models.Bet
	history []models.HistoryPoint
	chat    []models.ChatMessage

	nextEventID   uint64
	nextBetID     uint64
	nextHistoryID uint64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		agents: map[string]models.Agent{},
		events: map[uint64]models.Event{},
		bets:   map[uint64]models.Bet{},
	}
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (s *stubRepo) CreateAgent(ctx context.Context, item *models.Agent) error {
	s.agents[item.ID] = *item
	return nil
}

func (s *stubRepo) GetAgentTx(ctx context.Context, tx *gorm.DB, id string) (*models.Agent, error) {
	agent, ok := s.agents[id]
	if !ok {
		return nil, nil
	}
	out := agent
	return &out, nil
}

func (s *stubRepo) ListAgents(ctx context.Context) ([]models.Agent, error) {
	ids := make([]string, 0, len(s.agents))
	for id := range s.agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]models.Agent, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.agents[id])
	}
	return out, nil
}

func (s *stubRepo) SaveAgentTx(ctx context.Context, tx *gorm.DB, item *models.Agent) error {
	s.agents[item.ID] = *item
	return nil
}

func (s *stubRepo) ResetAgentsTx(ctx context.Context, tx *gorm.DB, balance float64) error {
	for id, agent := range s.agents {
		agent.Balance = balance
		agent.TotalBets = 0
		agent.Wins = 0
		agent.BiggestWin = 0
		agent.BiggestLoss = 0
		s.agents[id] = agent
	}
	return nil
}

func (s *stubRepo) CreateEvent(ctx context.Context, item *models.Event) error {
	s.nextEventID++
	item.ID = s.nextEventID
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	s.events[item.ID] = *item
	return nil
}

func (s *stubRepo) GetEvent(ctx context.Context, id uint64) (*models.Event, error) {
	event, ok := s.events[id]
	if !ok {
		return nil, nil
	}
	out := event
	return &out, nil
}

func (s *stubRepo) ListEvents(ctx context.Context, limit int) ([]models.Event, error) {
	ids := make([]uint64, 0, len(s.events))
	for id := range s.events {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	out := make([]models.Event, 0, len(ids))
	for _, id := range ids {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, s.events[id])
	}
	return out, nil
}

func (s *stubRepo) FirstEventByStatus(ctx context.Context, status string) (*models.Event, error) {
	ids := make([]uint64, 0, len(s.events))
	for id := range s.events {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if s.events[id].Status == status {
			out := s.events[id]
			return &out, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) TransitionEventTx(ctx context.Context, tx *gorm.DB, id uint64, from string, updates map[string]any) (int64, error) {
	event, ok := s.events[id]
	if !ok || event.Status != from {
		return 0, nil
	}
	applyEventUpdates(&event, updates)
	s.events[id] = event
	return 1, nil
}

func (s *stubRepo) UpdateEvent(ctx context.Context, id uint64, updates map[string]any) error {
	event, ok := s.events[id]
	if !ok {
		return nil
	}
	applyEventUpdates(&event, updates)
	s.events[id] = event
	return nil
}

func applyEventUpdates(event *models.Event, updates map[string]any) {
	for key, value := range updates {
		switch key {
		case "status":
			event.Status = value.(string)
		case "started_at":
			t := value.(time.Time)
			event.StartedAt = &t
		case "resolved_at":
			t := value.(time.Time)
			event.ResolvedAt = &t
		case "winning_side":
			side := value.(string)
			event.WinningSide = &side
		case "yes_pool":
			event.YesPool = value.(float64)
		case "no_pool":
			event.NoPool = value.(float64)
		case "title":
			event.Title = value.(string)
		case "description":
			event.Description = value.(string)
		case "duration_minutes":
			event.DurationMinutes = value.(int)
		}
	}
}

func (s *stubRepo) DeleteEvent(ctx context.Context, id uint64) error {
	delete(s.events, id)
	for betID, bet := range s.bets {
		if bet.EventID == id {
			delete(s.bets, betID)
		}
	}
	kept := s.chat[:0]
	for _, m := range s.chat {
		if m.EventID == nil || *m.EventID != id {
			kept = append(kept, m)
		}
	}
	s.chat = kept
	return nil
}

func (s *stubRepo) CreateBetTx(ctx context.Context, tx *gorm.DB, item *models.Bet) error {
	s.nextBetID++
	item.ID = s.nextBetID
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	s.bets[item.ID] = *item
	return nil
}

func (s *stubRepo) ListBetsByEvent(ctx context.Context, eventID uint64) ([]models.Bet, error) {
	ids := make([]uint64, 0, len(s.bets))
	for id, bet := range s.bets {
		if bet.EventID == eventID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]models.Bet, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.bets[id])
	}
	return out, nil
}

func (s *stubRepo) SetBetProfitTx(ctx context.Context, tx *gorm.DB, betID uint64, profit float64) error {
	bet, ok := s.bets[betID]
	if !ok {
		return nil
	}
	bet.Profit = &profit
	s.bets[betID] = bet
	return nil
}

func (s *stubRepo) CreateHistoryPointTx(ctx context.Context, tx *gorm.DB, item *models.HistoryPoint) error {
	s.nextHistoryID++
	item.ID = s.nextHistoryID
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	s.history = append(s.history, *item)
	return nil
}

func (s *stubRepo) ListHistoryPoints(ctx context.Context) ([]models.HistoryPoint, error) {
	out := make([]models.HistoryPoint, len(s.history))
	copy(out, s.history)
	return out, nil
}

func (s *stubRepo) ListHistoryPointsByAgent(ctx context.Context, agentID string) ([]models.HistoryPoint, error) {
	var out []models.HistoryPoint
	for _, p := range s.history {
		if p.AgentID == agentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubRepo) DeleteHistoryPoint(ctx context.Context, id uint64) error {
	kept := s.history[:0]
	for _, p := range s.history {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.history = kept
	return nil
}

func (s *stubRepo) CreateChatMessage(ctx context.Context, item *models.ChatMessage) error {
	item.ID = uint64(len(s.chat) + 1)
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	s.chat = append(s.chat, *item)
	return nil
}

func (s *stubRepo) ListChatMessages(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	out := make([]models.ChatMessage, len(s.chat))
	copy(out, s.chat)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (s *stubRepo) PurgeGameDataTx(ctx context.Context, tx *gorm.DB) error {
	s.events = map[uint64]models.Event{}
	s.bets = map[uint64]models.Bet{}
	s.history = nil
	s.chat = nil
	return nil
}
