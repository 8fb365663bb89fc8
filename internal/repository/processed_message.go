package repository

import (
	"context"
	"errors"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/campuspulse/eventstack/interfaces"
	"github.com/campuspulse/eventstack/internal/enum"
	"github.com/campuspulse/eventstack/internal/models"
	"github.com/campuspulse/eventstack/internal/tracing"
)

type processedMessageRepository struct {
	db *gorm.DB
}

func NewProcessedMessageRepository(db *gorm.DB) interfaces.ProcessedMessageRepository {
	return &processedMessageRepository{
		db: db,
	}
}

func (r *processedMessageRepository) Exists(ctx context.Context, uid string) (bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "processedMessageRepository.Exists")
	defer span.Finish()
	tracing.TagComponentRepository(span)
	tracing.TagMessage(span, uid)

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProcessedMessage{}).
		Where("uid = ?", uid).
		Count(&count).Error; err != nil {
		tracing.TraceErr(span, err)
		return false, err
	}

	return count > 0, nil
}

func (r *processedMessageRepository) Add(ctx context.Context, uid string, disposition enum.MessageDisposition) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "processedMessageRepository.Add")
	defer span.Finish()
	tracing.TagComponentRepository(span)
	tracing.TagMessage(span, uid)

	if uid == "" {
		return ErrInvalidInput
	}

	// A UID already in the log stays there; re-marking is a no-op so
	// callers can mark unconditionally.
	existing := &models.ProcessedMessage{}
	err := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		First(existing).Error

	if err == nil {
		span.SetTag("duplicate", true)
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		tracing.TraceErr(span, err)
		return err
	}

	record := &models.ProcessedMessage{
		UID:         uid,
		Disposition: disposition,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}

func (r *processedMessageRepository) FilterNew(ctx context.Context, uids []string) ([]string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "processedMessageRepository.FilterNew")
	defer span.Finish()
	tracing.TagComponentRepository(span)

	if len(uids) == 0 {
		return nil, nil
	}

	var known []string
	if err := r.db.WithContext(ctx).Model(&models.ProcessedMessage{}).
		Where("uid IN ?", uids).
		Pluck("uid", &known).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}

	knownSet := make(map[string]struct{}, len(known))
	for _, uid := range known {
		knownSet[uid] = struct{}{}
	}

	fresh := make([]string, 0, len(uids))
	for _, uid := range uids {
		if _, ok := knownSet[uid]; !ok {
			fresh = append(fresh, uid)
		}
	}

	return fresh, nil
}
