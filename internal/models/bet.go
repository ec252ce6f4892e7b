package models

import "time"

// Bet is one agent's stake on one side of an event. Side and amount are
// immutable once placed; Profit stays nil until the event resolves.
type Bet struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   uint64    `gorm:"not null;index" json:"event_id"`
	AgentID   string    `gorm:"type:text;not null;index" json:"agent_id"`
	Side      string    `gorm:"type:varchar(3);not null" json:"side"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Reasoning string    `gorm:"type:text" json:"reasoning"`
	Profit    *float64  `json:"profit"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
}

func (Bet) TableName() string {
	return "bets"
}
