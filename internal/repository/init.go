package repository

import (
	"gorm.io/gorm"

	"github.com/campuspulse/eventstack/interfaces"
	"github.com/campuspulse/eventstack/internal/models"
)

type Repositories struct {
	EventRepository            interfaces.EventRepository
	ProcessedMessageRepository interfaces.ProcessedMessageRepository
	QuotaUsageRepository       interfaces.QuotaUsageRepository
}

func InitRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		EventRepository:            NewEventRepository(db),
		ProcessedMessageRepository: NewProcessedMessageRepository(db),
		QuotaUsageRepository:       NewQuotaUsageRepository(db),
	}
}

func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Event{},
		&models.ProcessedMessage{},
		&models.QuotaUsage{},
	)
}
