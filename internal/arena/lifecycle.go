package arena

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/edfefegeger/polymind/internal/feed"
	"github.com/edfefegeger/polymind/internal/models"
	"github.com/edfefegeger/polymind/internal/repository"
)

// Lifecycle drives events through pending -> active -> resolved and owns the
// single serialization point for every mutation of agent or event state. All
// read-modify-write paths take the mutex, so two settlements (or a settlement
// and an admin adjustment) can never interleave.
type Lifecycle struct {
	Repo            repository.Repository
	Registry        *Registry
	Bets            BetSource
	Narrator        Narrator
	Feed            *feed.Hub
	Logger          *zap.Logger
	DefaultDuration int

	mu sync.Mutex
}

// EventView is an event with its bets attached.
type EventView struct {
	models.Event
	Bets []models.Bet `json:"bets"`
}

// EventPatch carries the mutable descriptive fields for Update. A status
// value is a raw override that bypasses start/resolve side effects and is
// meant for admin repair only.
type EventPatch struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	DurationMinutes *int    `json:"duration_minutes"`
	Status          *string `json:"status"`
}

// HistoryEntry is one point of an agent's balance series, shaped for the
// history snapshot.
type HistoryEntry struct {
	ID        uint64    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Balance   float64   `json:"balance"`
	WinRate   float64   `json:"winrate"`
}

// Create records a new pending event and announces it.
func (l *Lifecycle) Create(ctx context.Context, title, description string, durationMinutes int) (*models.Event, error) {
	if l == nil || l.Repo == nil {
		return nil, ErrInvalidArgument
	}
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrInvalidArgument)
	}
	if durationMinutes <= 0 {
		durationMinutes = l.DefaultDuration
	}
	event := &models.Event{
		Title:           title,
		Description:     description,
		DurationMinutes: durationMinutes,
		Status:          models.StatusPending,
	}
	if err := l.Repo.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	l.chat(ctx, models.ChatTypeSystem, fmt.Sprintf("New event created: %s", title), nil, &event.ID)
	l.broadcastHistory(ctx)
	if l.Logger != nil {
		l.Logger.Info("event created", zap.Uint64("event", event.ID), zap.String("title", title))
	}
	return event, nil
}

// Start moves a pending event to active and places exactly one bet per roster
// agent. Bets and reasoning lines are generated before the mutex is taken so
// a slow narrative provider never stalls other mutations; the check-and-set
// in the transaction rejects whichever of two racing starts loses.
func (l *Lifecycle) Start(ctx context.Context, eventID uint64) (*models.Event, error) {
	if l == nil || l.Repo == nil {
		return nil, ErrInvalidArgument
	}

	event, err := l.Repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %d: %w", eventID, ErrNotFound)
	}
	if event.Status != models.StatusPending {
		return nil, fmt.Errorf("start %s event %d: %w", event.Status, eventID, ErrInvalidTransition)
	}

	agents, err := l.Registry.Agents(ctx)
	if err != nil {
		return nil, err
	}

	var yesPool, noPool float64
	bets := make([]*models.Bet, 0, len(agents))
	for _, agent := range agents {
		side, amount := l.Bets.Generate(agent, *event)
		if !models.ValidSide(side) || amount <= 0 {
			return nil, fmt.Errorf("bet source produced side=%q amount=%v: %w", side, amount, ErrInvalidArgument)
		}
		bets = append(bets, &models.Bet{
			EventID:   eventID,
			AgentID:   agent.ID,
			Side:      side,
			Amount:    amount,
			Reasoning: l.narrate(ctx, agent.ID, event.Title),
		})
		if side == models.SideYes {
			yesPool += amount
		} else {
			noPool += amount
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().UTC()
	err = l.Repo.InTx(ctx, func(tx *gorm.DB) error {
		n, err := l.Repo.TransitionEventTx(ctx, tx, eventID, models.StatusPending, map[string]any{
			"status":     models.StatusActive,
			"started_at": now,
			"yes_pool":   yesPool,
			"no_pool":    noPool,
		})
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("start event %d: %w", eventID, ErrInvalidTransition)
		}
		for _, bet := range bets {
			if err := l.Repo.CreateBetTx(ctx, tx, bet); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	nameByID := map[string]string{}
	for _, a := range agents {
		nameByID[a.ID] = a.Name
	}
	for _, bet := range bets {
		agentID := bet.AgentID
		l.chat(ctx, models.ChatTypeBet,
			fmt.Sprintf("%s placed a %s bet ($%.2f)", nameByID[agentID], bet.Side, bet.Amount),
			&agentID, &eventID)
		if bet.Reasoning != "" {
			l.chat(ctx, models.ChatTypeReasoning,
				fmt.Sprintf("%s: %s", nameByID[agentID], bet.Reasoning),
				&agentID, &eventID)
		}
	}
	l.chat(ctx, models.ChatTypeSystem, fmt.Sprintf("Event started: %s", event.Title), nil, &eventID)
	l.broadcastHistory(ctx)

	if l.Logger != nil {
		l.Logger.Info("event started",
			zap.Uint64("event", eventID),
			zap.Int("bets", len(bets)),
			zap.Float64("yes_pool", yesPool),
			zap.Float64("no_pool", noPool),
		)
	}

	event.Status = models.StatusActive
	event.StartedAt = &now
	event.YesPool = yesPool
	event.NoPool = noPool
	return event, nil
}

// Resolve settles an active event: pari-mutuel payouts, agent statistics,
// history points and bet profits are committed in one transaction, then the
// delta batch is pushed to the feed. A non-active event fails without
// touching any balance.
func (l *Lifecycle) Resolve(ctx context.Context, eventID uint64, winningSide string) (*models.Event, error) {
	if l == nil || l.Repo == nil {
		return nil, ErrInvalidArgument
	}
	if !models.ValidSide(winningSide) {
		return nil, fmt.Errorf("winning side %q: %w", winningSide, ErrInvalidArgument)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	event, err := l.Repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %d: %w", eventID, ErrNotFound)
	}
	if event.Status != models.StatusActive {
		return nil, fmt.Errorf("resolve %s event %d: %w", event.Status, eventID, ErrInvalidTransition)
	}

	bets, err := l.Repo.ListBetsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	results := Settle(bets, winningSide)

	now := time.Now().UTC()
	var deltas []Delta
	err = l.Repo.InTx(ctx, func(tx *gorm.DB) error {
		deltas = deltas[:0]
		n, err := l.Repo.TransitionEventTx(ctx, tx, eventID, models.StatusActive, map[string]any{
			"status":       models.StatusResolved,
			"resolved_at":  now,
			"winning_side": winningSide,
		})
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("resolve event %d: %w", eventID, ErrInvalidTransition)
		}
		for _, res := range results {
			if err := l.Repo.SetBetProfitTx(ctx, tx, res.Bet.ID, res.Profit); err != nil {
				return err
			}
			agent, err := l.Registry.ApplySettlementTx(ctx, tx, res.Bet.AgentID, res.Profit, res.Won)
			if err != nil {
				return err
			}
			won := res.Won
			point := &models.HistoryPoint{
				AgentID:   agent.ID,
				Balance:   agent.Balance,
				WinRate:   WinRate(*agent),
				BetAmount: res.Bet.Amount,
				Won:       &won,
			}
			if err := l.Repo.CreateHistoryPointTx(ctx, tx, point); err != nil {
				return err
			}
			deltas = append(deltas, Delta{
				AgentID: agent.ID,
				Name:    agent.Name,
				Balance: agent.Balance,
				Profit:  res.Profit,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i, res := range results {
		agentID := res.Bet.AgentID
		verb := "lost"
		if res.Won {
			verb = "won"
		}
		l.chat(ctx, models.ChatTypeResult,
			fmt.Sprintf("%s %s the bet (%+.2f) | Balance: $%.2f", deltas[i].Name, verb, res.Profit, deltas[i].Balance),
			&agentID, &eventID)
	}
	l.chat(ctx, models.ChatTypeSystem,
		fmt.Sprintf("Event resolved: %s - %s wins", event.Title, winningSide),
		nil, &eventID)

	l.broadcastHistory(ctx)
	if l.Feed != nil {
		l.Feed.Broadcast(feed.Message{Type: feed.TypeBubbleMap, Data: deltas})
	}

	if l.Logger != nil {
		l.Logger.Info("event resolved",
			zap.Uint64("event", eventID),
			zap.String("winning_side", winningSide),
			zap.Int("bets", len(results)),
		)
	}

	event.Status = models.StatusResolved
	event.ResolvedAt = &now
	event.WinningSide = &winningSide
	return event, nil
}

// Update patches mutable descriptive fields. Writing status here skips the
// start/resolve side effects entirely, so it is logged loudly and intended
// for admin repair.
func (l *Lifecycle) Update(ctx context.Context, eventID uint64, patch EventPatch) error {
	if l == nil || l.Repo == nil {
		return ErrInvalidArgument
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	event, err := l.Repo.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return fmt.Errorf("event %d: %w", eventID, ErrNotFound)
	}

	updates := map[string]any{}
	if patch.Title != nil {
		if *patch.Title == "" {
			return fmt.Errorf("title cannot be empty: %w", ErrInvalidArgument)
		}
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.DurationMinutes != nil {
		if *patch.DurationMinutes <= 0 {
			return fmt.Errorf("duration must be positive: %w", ErrInvalidArgument)
		}
		updates["duration_minutes"] = *patch.DurationMinutes
	}
	if patch.Status != nil {
		if !models.ValidStatus(*patch.Status) {
			return fmt.Errorf("status %q: %w", *patch.Status, ErrInvalidArgument)
		}
		updates["status"] = *patch.Status
		if l.Logger != nil {
			l.Logger.Warn("event status overridden without settlement",
				zap.Uint64("event", eventID),
				zap.String("from", event.Status),
				zap.String("to", *patch.Status),
			)
		}
	}
	if len(updates) == 0 {
		return fmt.Errorf("empty update: %w", ErrInvalidArgument)
	}
	if err := l.Repo.UpdateEvent(ctx, eventID, updates); err != nil {
		return err
	}
	l.broadcastHistory(ctx)
	return nil
}

// Delete removes an event together with its bets and chat references.
func (l *Lifecycle) Delete(ctx context.Context, eventID uint64) error {
	if l == nil || l.Repo == nil {
		return ErrInvalidArgument
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	event, err := l.Repo.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event == nil {
		return fmt.Errorf("event %d: %w", eventID, ErrNotFound)
	}
	if err := l.Repo.DeleteEvent(ctx, eventID); err != nil {
		return err
	}
	if l.Logger != nil {
		l.Logger.Info("event deleted", zap.Uint64("event", eventID))
	}
	l.broadcastHistory(ctx)
	return nil
}

// Current returns the active event with its bets, or nil when no event is
// running.
func (l *Lifecycle) Current(ctx context.Context) (*EventView, error) {
	if l == nil || l.Repo == nil {
		return nil, nil
	}
	event, err := l.Repo.FirstEventByStatus(ctx, models.StatusActive)
	if err != nil || event == nil {
		return nil, err
	}
	bets, err := l.Repo.ListBetsByEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	return &EventView{Event: *event, Bets: bets}, nil
}

// List returns events newest first with bets attached.
func (l *Lifecycle) List(ctx context.Context, limit int) ([]EventView, error) {
	if l == nil || l.Repo == nil {
		return nil, nil
	}
	events, err := l.Repo.ListEvents(ctx, limit)
	if err != nil {
		return nil, err
	}
	views := make([]EventView, 0, len(events))
	for _, event := range events {
		bets, err := l.Repo.ListBetsByEvent(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, EventView{Event: event, Bets: bets})
	}
	return views, nil
}

// EventBets returns the bets attached to one event.
func (l *Lifecycle) EventBets(ctx context.Context, eventID uint64) ([]models.Bet, error) {
	if l == nil || l.Repo == nil {
		return nil, nil
	}
	event, err := l.Repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %d: %w", eventID, ErrNotFound)
	}
	return l.Repo.ListBetsByEvent(ctx, eventID)
}

// AdvancePending starts the oldest pending event, if any. Called from the
// scheduler; an empty pending set is not an error, and a lost race against a
// concurrent manual start is swallowed because the check-and-set in Start
// already refused the double transition.
func (l *Lifecycle) AdvancePending(ctx context.Context) error {
	if l == nil || l.Repo == nil {
		return nil
	}
	event, err := l.Repo.FirstEventByStatus(ctx, models.StatusPending)
	if err != nil {
		return err
	}
	if event == nil {
		return nil
	}
	if _, err := l.Start(ctx, event.ID); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return nil
		}
		return err
	}
	return nil
}

// HistorySnapshot builds the full per-agent balance series, keyed by agent
// id, ordered by insertion. This is also the first frame every new feed
// subscriber receives.
func (l *Lifecycle) HistorySnapshot(ctx context.Context) (map[string][]HistoryEntry, error) {
	if l == nil || l.Repo == nil {
		return nil, nil
	}
	points, err := l.Repo.ListHistoryPoints(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := map[string][]HistoryEntry{}
	for _, p := range points {
		snapshot[p.AgentID] = append(snapshot[p.AgentID], HistoryEntry{
			ID:        p.ID,
			Timestamp: p.CreatedAt,
			Balance:   p.Balance,
			WinRate:   p.WinRate,
		})
	}
	return snapshot, nil
}

func (l *Lifecycle) broadcastHistory(ctx context.Context) {
	if l.Feed == nil {
		return
	}
	snapshot, err := l.HistorySnapshot(ctx)
	if err != nil {
		if l.Logger != nil {
			l.Logger.Warn("history snapshot for broadcast failed", zap.Error(err))
		}
		return
	}
	l.Feed.Broadcast(feed.Message{Type: feed.TypeHistory, Data: snapshot})
}

func (l *Lifecycle) narrate(ctx context.Context, agentID, question string) string {
	if l.Narrator == nil {
		return ""
	}
	return l.Narrator.Explain(ctx, agentID, question)
}

// chat appends a transcript line. Transcript failures are logged, never
// surfaced: the game state is already committed by the time we narrate it.
func (l *Lifecycle) chat(ctx context.Context, typ, message string, agentID *string, eventID *uint64) {
	if l.Repo == nil {
		return
	}
	err := l.Repo.CreateChatMessage(ctx, &models.ChatMessage{
		Type:    typ,
		AgentID: agentID,
		EventID: eventID,
		Message: message,
	})
	if err != nil && l.Logger != nil {
		l.Logger.Warn("chat message write failed", zap.Error(err))
	}
}
