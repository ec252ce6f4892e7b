package arena

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/edfefegeger/polymind/internal/models"
	"github.com/edfefegeger/polymind/internal/repository"
)

const defaultWinRate = 50.0

// Registry owns the fixed agent roster and its cumulative statistics.
type Registry struct {
	Repo         repository.Repository
	Logger       *zap.Logger
	InitialStake float64
}

// AgentIDFor derives the stable agent id from a display name.
func AgentIDFor(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// EnsureRoster creates an agent with the starting stake for every name not
// already present. Existing agents keep their statistics, so repeated calls
// are safe. Fresh agents also get a seed history point at the neutral 50%
// win rate so charts start from a defined origin.
func (r *Registry) EnsureRoster(ctx context.Context, names []string) error {
	if r == nil || r.Repo == nil {
		return nil
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		id := AgentIDFor(name)
		existing, err := r.Repo.GetAgentTx(ctx, nil, id)
		if err != nil {
			return fmt.Errorf("roster lookup %s: %w", id, err)
		}
		if existing != nil {
			continue
		}
		agent := &models.Agent{
			ID:      id,
			Name:    name,
			Balance: r.InitialStake,
		}
		if err := r.Repo.CreateAgent(ctx, agent); err != nil {
			return fmt.Errorf("roster create %s: %w", id, err)
		}
		point := &models.HistoryPoint{
			AgentID: id,
			Balance: r.InitialStake,
			WinRate: defaultWinRate,
		}
		if err := r.Repo.CreateHistoryPointTx(ctx, nil, point); err != nil {
			return fmt.Errorf("roster seed history %s: %w", id, err)
		}
		if r.Logger != nil {
			r.Logger.Info("agent registered", zap.String("agent", id))
		}
	}
	return nil
}

func (r *Registry) Agent(ctx context.Context, id string) (*models.Agent, error) {
	if r == nil || r.Repo == nil {
		return nil, ErrNotFound
	}
	agent, err := r.Repo.GetAgentTx(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, fmt.Errorf("agent %s: %w", id, ErrNotFound)
	}
	return agent, nil
}

func (r *Registry) Agents(ctx context.Context) ([]models.Agent, error) {
	if r == nil || r.Repo == nil {
		return nil, nil
	}
	return r.Repo.ListAgents(ctx)
}

// ApplySettlementTx adds profit to the agent's balance, bumps the bet and win
// counters and maintains the biggest win/loss high-water marks, all inside
// the caller's transaction. The updated agent row is returned.
func (r *Registry) ApplySettlementTx(ctx context.Context, tx *gorm.DB, agentID string, profit float64, won bool) (*models.Agent, error) {
	agent, err := r.Repo.GetAgentTx(ctx, tx, agentID)
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, fmt.Errorf("agent %s: %w", agentID, ErrNotFound)
	}
	agent.Balance += profit
	agent.TotalBets++
	if won {
		agent.Wins++
	}
	if profit > 0 && profit > agent.BiggestWin {
		agent.BiggestWin = profit
	}
	if profit < 0 && profit < agent.BiggestLoss {
		agent.BiggestLoss = profit
	}
	if err := r.Repo.SaveAgentTx(ctx, tx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// WinRate is wins/total_bets as a percentage. Agents with no settled bets
// report the neutral 50.0 default, which biases early leaderboard display
// toward the middle rather than the extremes.
func WinRate(a models.Agent) float64 {
	if a.TotalBets <= 0 {
		return defaultWinRate
	}
	return float64(a.Wins) / float64(a.TotalBets) * 100
}

// LeaderboardRow is one ranked standing.
type LeaderboardRow struct {
	Rank          int     `json:"rank"`
	AgentID       string  `json:"agent_id"`
	Name          string  `json:"name"`
	ReturnPercent float64 `json:"return_percent"`
	TotalPnL      float64 `json:"total_pnl"`
	WinRate       float64 `json:"win_rate"`
	BiggestWin    float64 `json:"biggest_win"`
	BiggestLoss   float64 `json:"biggest_loss"`
}

func (r *Registry) Leaderboard(ctx context.Context) ([]LeaderboardRow, error) {
	agents, err := r.Agents(ctx)
	if err != nil {
		return nil, err
	}
	return rankAgents(agents, r.InitialStake), nil
}

// rankAgents sorts by return percent, then win rate, both descending, and
// assigns 1-based ranks in sorted order. The sort is stable so repeated calls
// with the same inputs produce identical rankings.
func rankAgents(agents []models.Agent, stake float64) []LeaderboardRow {
	rows := make([]LeaderboardRow, 0, len(agents))
	for _, a := range agents {
		pnl := a.Balance - stake
		ret := 0.0
		if stake != 0 {
			ret = pnl / stake * 100
		}
		rows = append(rows, LeaderboardRow{
			AgentID:       a.ID,
			Name:          a.Name,
			ReturnPercent: ret,
			TotalPnL:      pnl,
			WinRate:       WinRate(a),
			BiggestWin:    a.BiggestWin,
			BiggestLoss:   a.BiggestLoss,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ReturnPercent != rows[j].ReturnPercent {
			return rows[i].ReturnPercent > rows[j].ReturnPercent
		}
		return rows[i].WinRate > rows[j].WinRate
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
