package db

import (
	"github.com/edfefegeger/polymind/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Agent{},
		&models.Event{},
		&models.Bet{},
		&models.HistoryPoint{},
		&models.ChatMessage{},
	)
}
