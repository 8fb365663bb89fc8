package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/campuspulse/eventstack/internal/enum"
	"github.com/campuspulse/eventstack/internal/utils"
)

// ProcessedMessage marks a mailbox UID as handled. Once a UID is here
// the pipeline never fetches or classifies it again.
type ProcessedMessage struct {
	ID          string                  `gorm:"column:id;type:varchar(50);primaryKey"`
	UID         string                  `gorm:"column:uid;type:varchar(50);uniqueIndex;not null"`
	Disposition enum.MessageDisposition `gorm:"column:disposition;type:varchar(50);index"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
}

func (ProcessedMessage) TableName() string {
	return "processed_messages"
}

func (p *ProcessedMessage) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = utils.GenerateNanoIDWithPrefix("msg", 12)
	}
	p.CreatedAt = utils.Now()
	return nil
}
