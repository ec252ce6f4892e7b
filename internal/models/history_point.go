package models

import "time"

// HistoryPoint is an append-only sample of an agent's balance and win rate,
// written once per settlement per affected agent (or by admin edit).
// Won is nil for seed and admin points that carry no bet outcome.
type HistoryPoint struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	AgentID   string    `gorm:"type:text;not null;index" json:"agent_id"`
	Balance   float64   `gorm:"not null" json:"balance"`
	WinRate   float64   `gorm:"not null" json:"winrate"`
	BetAmount float64   `gorm:"not null;default:0" json:"bet_amount"`
	Won       *bool     `json:"won"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index" json:"timestamp"`
}

func (HistoryPoint) TableName() string {
	return "history_points"
}
