package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/campuspulse/eventstack/internal/utils"
)

// QuotaUsage counts dispatched classification calls per backend per
// calendar day. Rows are keyed by day, so a date rollover starts from
// zero without touching older rows.
type QuotaUsage struct {
	ID        string `gorm:"column:id;type:varchar(50);primaryKey"`
	Day       string `gorm:"column:day;type:varchar(10);uniqueIndex:idx_quota_day_backend;not null"`
	BackendID string `gorm:"column:backend_id;type:varchar(100);uniqueIndex:idx_quota_day_backend;not null"`
	Count     int    `gorm:"column:count;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
}

func (QuotaUsage) TableName() string {
	return "quota_usage"
}

func (q *QuotaUsage) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = utils.GenerateNanoIDWithPrefix("quo", 12)
	}
	q.CreatedAt = utils.Now()
	return nil
}

// QuotaDay formats t as the ledger's day key.
func QuotaDay(t time.Time) string {
	return t.Format("2006-01-02")
}
