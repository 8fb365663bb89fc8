package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/campuspulse/eventstack/internal/utils"
)

// Event is the structured record extracted from a confirmed poster.
// Records are append-only; publishing and expiry belong to downstream
// consumers.
type Event struct {
	ID string `gorm:"column:id;type:varchar(50);primaryKey"`

	// Extracted fields. Dates are kept as free-form strings, exactly as
	// the classifier returned them.
	Title            string `gorm:"column:title;type:varchar(500)"`
	Venue            string `gorm:"column:venue;type:varchar(500)"`
	StartDate        string `gorm:"column:start_date;type:varchar(100)"`
	EndDate          string `gorm:"column:end_date;type:varchar(100)"`
	RegistrationFee  string `gorm:"column:registration_fee;type:varchar(100)"`
	TeamSize         string `gorm:"column:team_size;type:varchar(100)"`
	Category         string `gorm:"column:category;type:varchar(255);index"`
	RegistrationLink string `gorm:"column:registration_link;type:varchar(1000)"`
	Organizer        string `gorm:"column:organizer;type:varchar(500)"`

	// Provenance
	PosterPath   string     `gorm:"column:poster_path;type:varchar(1000)"`
	EmailSubject string     `gorm:"column:email_subject;type:varchar(1000)"`
	EmailDate    *time.Time `gorm:"column:email_date;type:timestamp"`
	EmailUID     string     `gorm:"column:email_uid;type:varchar(50);index"`
	BackendID    string     `gorm:"column:backend_id;type:varchar(100)"`

	// Raw classifier payload, for audit
	RawResult JSONMap `gorm:"column:raw_result"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = utils.GenerateNanoIDWithPrefix("evt", 12)
	}
	e.CreatedAt = utils.Now()
	return nil
}
