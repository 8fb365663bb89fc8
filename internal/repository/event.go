package repository

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/campuspulse/eventstack/interfaces"
	"github.com/campuspulse/eventstack/internal/models"
	"github.com/campuspulse/eventstack/internal/tracing"
)

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) interfaces.EventRepository {
	return &eventRepository{
		db: db,
	}
}

// Create appends an event record to the archive.
func (r *eventRepository) Create(ctx context.Context, event *models.Event) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "eventRepository.Create")
	defer span.Finish()
	tracing.TagComponentRepository(span)

	if event == nil {
		return "", ErrInvalidInput
	}

	result := r.db.WithContext(ctx).Create(event)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return "", result.Error
	}

	return event.ID, nil
}

// ListAll returns the archive ordered by insertion time, newest first.
func (r *eventRepository) ListAll(ctx context.Context) ([]*models.Event, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "eventRepository.ListAll")
	defer span.Finish()
	tracing.TagComponentRepository(span)

	var events []*models.Event
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	return events, nil
}
