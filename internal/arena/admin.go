package arena

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/edfefegeger/polymind/internal/models"
)

// AdminPoint is a manually injected history sample. When UpdateAgent is set
// and Won carries an outcome, the agent's counters are adjusted to match, as
// if a settlement with that outcome had happened.
type AdminPoint struct {
	AgentID     string  `json:"agent_id"`
	Balance     float64 `json:"balance"`
	WinRate     float64 `json:"winrate"`
	BetAmount   float64 `json:"bet_amount"`
	Won         *bool   `json:"won"`
	UpdateAgent bool    `json:"update_agent"`
}

// AddHistoryPoint appends a history sample and optionally syncs the agent row
// to it. Shares the lifecycle mutex so it cannot interleave with a running
// settlement.
func (l *Lifecycle) AddHistoryPoint(ctx context.Context, point AdminPoint) error {
	if l == nil || l.Repo == nil {
		return ErrInvalidArgument
	}
	if point.AgentID == "" {
		return fmt.Errorf("agent_id is required: %w", ErrInvalidArgument)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	agent, err := l.Repo.GetAgentTx(ctx, nil, point.AgentID)
	if err != nil {
		return err
	}
	if agent == nil {
		return fmt.Errorf("agent %s: %w", point.AgentID, ErrNotFound)
	}

	err = l.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := l.Repo.CreateHistoryPointTx(ctx, tx, &models.HistoryPoint{
			AgentID:   point.AgentID,
			Balance:   point.Balance,
			WinRate:   point.WinRate,
			BetAmount: point.BetAmount,
			Won:       point.Won,
		}); err != nil {
			return err
		}
		if !point.UpdateAgent || point.Won == nil {
			return nil
		}
		agent.Balance = point.Balance
		agent.TotalBets++
		if *point.Won {
			agent.Wins++
		}
		return l.Repo.SaveAgentTx(ctx, tx, agent)
	})
	if err != nil {
		return err
	}
	l.broadcastHistory(ctx)
	return nil
}

// HistoryList returns every history point in insertion order.
func (l *Lifecycle) HistoryList(ctx context.Context) ([]models.HistoryPoint, error) {
	if l == nil || l.Repo == nil {
		return nil, nil
	}
	return l.Repo.ListHistoryPoints(ctx)
}

// RemoveHistoryPoint deletes one history sample and pushes the corrected
// series to subscribers.
func (l *Lifecycle) RemoveHistoryPoint(ctx context.Context, id uint64) error {
	if l == nil || l.Repo == nil {
		return ErrInvalidArgument
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.Repo.DeleteHistoryPoint(ctx, id); err != nil {
		return err
	}
	l.broadcastHistory(ctx)
	return nil
}

// RecomputeAgents rebuilds every agent row from its history series: balance
// from the latest point, counters from the points that carry an outcome.
func (l *Lifecycle) RecomputeAgents(ctx context.Context) error {
	if l == nil || l.Repo == nil || l.Registry == nil {
		return ErrInvalidArgument
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	agents, err := l.Registry.Agents(ctx)
	if err != nil {
		return err
	}
	return l.Repo.InTx(ctx, func(tx *gorm.DB) error {
		for i := range agents {
			agent := agents[i]
			points, err := l.Repo.ListHistoryPointsByAgent(ctx, agent.ID)
			if err != nil {
				return err
			}
			balance := l.Registry.InitialStake
			if len(points) > 0 {
				balance = points[len(points)-1].Balance
			}
			total, wins := 0, 0
			for _, p := range points {
				if p.Won == nil {
					continue
				}
				total++
				if *p.Won {
					wins++
				}
			}
			agent.Balance = balance
			agent.TotalBets = total
			agent.Wins = wins
			if err := l.Repo.SaveAgentTx(ctx, tx, &agent); err != nil {
				return err
			}
		}
		return nil
	})
}

// Reset wipes events, bets, history and chat, restores every agent to the
// initial stake and reseeds the neutral history origin per agent.
func (l *Lifecycle) Reset(ctx context.Context) error {
	if l == nil || l.Repo == nil || l.Registry == nil {
		return ErrInvalidArgument
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	agents, err := l.Registry.Agents(ctx)
	if err != nil {
		return err
	}
	err = l.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := l.Repo.PurgeGameDataTx(ctx, tx); err != nil {
			return err
		}
		if err := l.Repo.ResetAgentsTx(ctx, tx, l.Registry.InitialStake); err != nil {
			return err
		}
		for _, agent := range agents {
			if err := l.Repo.CreateHistoryPointTx(ctx, tx, &models.HistoryPoint{
				AgentID: agent.ID,
				Balance: l.Registry.InitialStake,
				WinRate: defaultWinRate,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if l.Logger != nil {
		l.Logger.Info("arena reset", zap.Int("agents", len(agents)))
	}
	l.broadcastHistory(ctx)
	return nil
}
