package models

import "time"

const (
	ChatTypeSystem    = "system"
	ChatTypeBet       = "bet"
	ChatTypeReasoning = "reasoning"
	ChatTypeResult    = "result"
)

// ChatMessage is one line of the arena transcript: system notices, bet
// placements, reasoning lines and settlement results.
type ChatMessage struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Type      string    `gorm:"type:varchar(16);not null" json:"type"`
	AgentID   *string   `gorm:"type:text;index" json:"agent_id"`
	EventID   *uint64   `gorm:"index" json:"event_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"timestamp"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
