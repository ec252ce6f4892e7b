package models

import "time"

// Agent is a fixed-roster participant. Created once at boot, never deleted;
// balance and counters are only touched by settlement or admin repair.
type Agent struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	Name        string    `gorm:"type:text;uniqueIndex;not null" json:"name"`
	Balance     float64   `gorm:"not null" json:"balance"`
	TotalBets   int       `gorm:"not null;default:0" json:"total_bets"`
	Wins        int       `gorm:"not null;default:0" json:"wins"`
	BiggestWin  float64   `gorm:"not null;default:0" json:"biggest_win"`
	BiggestLoss float64   `gorm:"not null;default:0" json:"biggest_loss"`
	CreatedAt   time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
}

func (Agent) TableName() string {
	return "agents"
}
