package gormrepository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/edfefegeger/polymind/internal/models"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- agents ------------------------------------------------------------------

func (s *Store) CreateAgent(ctx context.Context, item *models.Agent) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetAgentTx(ctx context.Context, tx *gorm.DB, id string) (*models.Agent, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Agent
	err := s.conn(ctx, tx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListAgents(ctx context.Context) ([]models.Agent, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Agent
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SaveAgentTx(ctx context.Context, tx *gorm.DB, item *models.Agent) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.conn(ctx, tx).Save(item).Error
}

func (s *Store) ResetAgentsTx(ctx context.Context, tx *gorm.DB, balance float64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.conn(ctx, tx).Model(&models.Agent{}).
		Where("1 = 1").
		Updates(map[string]any{
			"balance":      balance,
			"total_bets":   0,
			"wins":         0,
			"biggest_win":  0,
			"biggest_loss": 0,
		}).Error
}

// --- events ------------------------------------------------------------------

func (s *Store) CreateEvent(ctx context.Context, item *models.Event) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetEvent(ctx context.Context, id uint64) (*models.Event, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Event
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListEvents(ctx context.Context, limit int) ([]models.Event, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var items []models.Event
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) FirstEventByStatus(ctx context.Context, status string) (*models.Event, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Event
	err := s.db.WithContext(ctx).
		Where("status = ?", status).
		Order("id ASC").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) TransitionEventTx(ctx context.Context, tx *gorm.DB, id uint64, from string, updates map[string]any) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.conn(ctx, tx).Model(&models.Event{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (s *Store) UpdateEvent(ctx context.Context, id uint64, updates map[string]any) error {
	if s == nil || s.db == nil || len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (s *Store) DeleteEvent(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.Bet{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, "id = ?", id).Error
	})
}

// --- bets --------------------------------------------------------------------

func (s *Store) CreateBetTx(ctx context.Context, tx *gorm.DB, item *models.Bet) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.conn(ctx, tx).Create(item).Error
}

func (s *Store) ListBetsByEvent(ctx context.Context, eventID uint64) ([]models.Bet, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Bet
	err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SetBetProfitTx(ctx context.Context, tx *gorm.DB, betID uint64, profit float64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.conn(ctx, tx).Model(&models.Bet{}).
		Where("id = ?", betID).
		Update("profit", profit).Error
}

// --- history points ----------------------------------------------------------

func (s *Store) CreateHistoryPointTx(ctx context.Context, tx *gorm.DB, item *models.HistoryPoint) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.conn(ctx, tx).Create(item).Error
}

func (s *Store) ListHistoryPoints(ctx context.Context) ([]models.HistoryPoint, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.HistoryPoint
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListHistoryPointsByAgent(ctx context.Context, agentID string) ([]models.HistoryPoint, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.HistoryPoint
	err := s.db.WithContext(ctx).
		Where("agent_id = ?", agentID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteHistoryPoint(ctx context.Context, id uint64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&models.HistoryPoint{}, "id = ?", id).Error
}

// --- chat --------------------------------------------------------------------

func (s *Store) CreateChatMessage(ctx context.Context, item *models.ChatMessage) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListChatMessages(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}
	var items []models.ChatMessage
	err := s.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	// Stored newest-first for the limit; callers want chronological order.
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}

// --- reset -------------------------------------------------------------------

func (s *Store) PurgeGameDataTx(ctx context.Context, tx *gorm.DB) error {
	if s == nil || s.db == nil {
		return nil
	}
	conn := s.conn(ctx, tx)
	if err := conn.Where("1 = 1").Delete(&models.Bet{}).Error; err != nil {
		return err
	}
	if err := conn.Where("1 = 1").Delete(&models.ChatMessage{}).Error; err != nil {
		return err
	}
	if err := conn.Where("1 = 1").Delete(&models.HistoryPoint{}).Error; err != nil {
		return err
	}
	return conn.Where("1 = 1").Delete(&models.Event{}).Error
}
