package models

import "time"

const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusResolved = "resolved"
)

const (
	SideYes = "YES"
	SideNo  = "NO"
)

// Event is a binary YES/NO market. Status walks pending -> active -> resolved,
// never backwards; WinningSide is set exactly when status is resolved.
type Event struct {
	ID              uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title           string     `gorm:"type:text;not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	DurationMinutes int        `gorm:"not null;default:10" json:"duration_minutes"`
	Status          string     `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	WinningSide     *string    `gorm:"type:varchar(3)" json:"winning_side"`
	YesPool         float64    `gorm:"not null;default:0" json:"yes_pool"`
	NoPool          float64    `gorm:"not null;default:0" json:"no_pool"`
	CreatedAt       time.Time  `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	StartedAt       *time.Time `gorm:"type:timestamptz" json:"started_at"`
	ResolvedAt      *time.Time `gorm:"type:timestamptz" json:"resolved_at"`
}

func (Event) TableName() string {
	return "events"
}

func ValidSide(side string) bool {
	return side == SideYes || side == SideNo
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusActive, StatusResolved:
		return true
	}
	return false
}
