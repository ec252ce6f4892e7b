package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edfefegeger/polymind/internal/models"
)

// Repository is the persistence surface the arena needs: plain CRUD over the
// four game relations plus the chat transcript. Methods with a Tx suffix run
// against the given transaction when it is non-nil and the base connection
// otherwise. Lookups return (nil, nil) when the row does not exist.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Agents.
	CreateAgent(ctx context.Context, item *models.Agent) error
	GetAgentTx(ctx context.Context, tx *gorm.DB, id string) (*models.Agent, error)
	ListAgents(ctx context.Context) ([]models.Agent, error)
	SaveAgentTx(ctx context.Context, tx *gorm.DB, item *models.Agent) error
	ResetAgentsTx(ctx context.Context, tx *gorm.DB, balance float64) error

	// Events.
	CreateEvent(ctx context.Context, item *models.Event) error
	GetEvent(ctx context.Context, id uint64) (*models.Event, error)
	ListEvents(ctx context.Context, limit int) ([]models.Event, error)
	FirstEventByStatus(ctx context.Context, status string) (*models.Event, error)
	// TransitionEventTx applies updates only when the event is still in the
	// from status and reports the number of rows touched (the check-and-set
	// behind the state machine).
	TransitionEventTx(ctx context.Context, tx *gorm.DB, id uint64, from string, updates map[string]any) (int64, error)
	UpdateEvent(ctx context.Context, id uint64, updates map[string]any) error
	DeleteEvent(ctx context.Context, id uint64) error

	// Bets.
	CreateBetTx(ctx context.Context, tx *gorm.DB, item *models.Bet) error
	ListBetsByEvent(ctx context.Context, eventID uint64) ([]models.Bet, error)
	SetBetProfitTx(ctx context.Context, tx *gorm.DB, betID uint64, profit float64) error

	// History points, append-only, ordered by insertion.
	CreateHistoryPointTx(ctx context.Context, tx *gorm.DB, item *models.HistoryPoint) error
	ListHistoryPoints(ctx context.Context) ([]models.HistoryPoint, error)
	ListHistoryPointsByAgent(ctx context.Context, agentID string) ([]models.HistoryPoint, error)
	DeleteHistoryPoint(ctx context.Context, id uint64) error

	// Chat transcript.
	CreateChatMessage(ctx context.Context, item *models.ChatMessage) error
	ListChatMessages(ctx context.Context, limit int) ([]models.ChatMessage, error)

	// PurgeGameDataTx removes events, bets, history points and chat messages,
	// leaving the agent rows in place for ResetAgentsTx.
	PurgeGameDataTx(ctx context.Context, tx *gorm.DB) error
}
