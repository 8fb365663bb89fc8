package repository

import (
	"context"
	"errors"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/campuspulse/eventstack/interfaces"
	"github.com/campuspulse/eventstack/internal/models"
	"github.com/campuspulse/eventstack/internal/tracing"
)

type quotaUsageRepository struct {
	db *gorm.DB
}

func NewQuotaUsageRepository(db *gorm.DB) interfaces.QuotaUsageRepository {
	return &quotaUsageRepository{
		db: db,
	}
}

func (r *quotaUsageRepository) GetCount(ctx context.Context, day, backendID string) (int, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "quotaUsageRepository.GetCount")
	defer span.Finish()
	tracing.TagComponentRepository(span)
	tracing.TagBackend(span, backendID)

	var usage models.QuotaUsage
	err := r.db.WithContext(ctx).
		Where("day = ? AND backend_id = ?", day, backendID).
		First(&usage).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		tracing.TraceErr(span, err)
		return 0, err
	}

	return usage.Count, nil
}

// Increment counts one dispatched call. The write is committed before
// returning so a crash mid-run cannot lose quota accounting.
func (r *quotaUsageRepository) Increment(ctx context.Context, day, backendID string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "quotaUsageRepository.Increment")
	defer span.Finish()
	tracing.TagComponentRepository(span)
	tracing.TagBackend(span, backendID)

	if day == "" || backendID == "" {
		return ErrInvalidInput
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var usage models.QuotaUsage
		err := tx.Where("day = ? AND backend_id = ?", day, backendID).
			First(&usage).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.QuotaUsage{
				Day:       day,
				BackendID: backendID,
				Count:     1,
			}).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&models.QuotaUsage{}).
			Where("id = ?", usage.ID).
			Update("count", gorm.Expr("count + 1")).Error
	})
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}
