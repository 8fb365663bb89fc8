package quota

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"

	"github.com/campuspulse/eventstack/interfaces"
	"github.com/campuspulse/eventstack/internal/logger"
	"github.com/campuspulse/eventstack/internal/models"
	"github.com/campuspulse/eventstack/internal/tracing"
)

type quotaLedger struct {
	repo interfaces.QuotaUsageRepository
	log  logger.Logger
	now  func() time.Time
}

func NewQuotaLedger(repo interfaces.QuotaUsageRepository, log logger.Logger) interfaces.QuotaLedger {
	return &quotaLedger{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// NewQuotaLedgerWithClock lets tests control the day boundary.
func NewQuotaLedgerWithClock(repo interfaces.QuotaUsageRepository, log logger.Logger, now func() time.Time) interfaces.QuotaLedger {
	return &quotaLedger{
		repo: repo,
		log:  log,
		now:  now,
	}
}

// CanUse consults today's counter only; rows for other days are stale
// by definition, so the day boundary is a hard reset rather than a
// sliding window.
func (l *quotaLedger) CanUse(ctx context.Context, backendID string, dailyLimit int) bool {
	span, ctx := opentracing.StartSpanFromContext(ctx, "quotaLedger.CanUse")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagBackend(span, backendID)

	count, err := l.repo.GetCount(ctx, models.QuotaDay(l.now()), backendID)
	if err != nil {
		// Unreadable ledger state never blocks operation.
		tracing.TraceErr(span, err)
		l.log.Warnf("Quota ledger unreadable for %s, assuming no usage: %v", backendID, err)
		return true
	}

	if count >= dailyLimit {
		l.log.Warnf("Daily limit reached for %s (%d/%d). Skipping.", backendID, count, dailyLimit)
		return false
	}
	return true
}

func (l *quotaLedger) RecordUse(ctx context.Context, backendID string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "quotaLedger.RecordUse")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagBackend(span, backendID)

	err := l.repo.Increment(ctx, models.QuotaDay(l.now()), backendID)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	return nil
}
