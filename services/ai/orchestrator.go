package ai

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/campuspulse/eventstack/dto"
	"github.com/campuspulse/eventstack/interfaces"
	"github.com/campuspulse/eventstack/internal/logger"
	"github.com/campuspulse/eventstack/internal/tracing"
)

// pacingSafetyMargin is added to every 60/rpm wait so consecutive runs
// cannot trip the remote per-minute throttle.
const pacingSafetyMargin = 2 * time.Second

type outcomeStatus int

const (
	outcomeSuccess outcomeStatus = iota
	outcomeQuotaExhausted
	outcomeRequestFailed
)

// backendOutcome is the typed result of one backend attempt, so the
// fallback loop never swallows an unexpected error class silently.
type backendOutcome struct {
	status outcomeStatus
	result *dto.PosterClassification
	err    error
}

type classificationService struct {
	backends []BackendDescriptor
	clients  map[Provider]interfaces.BackendClient
	ledger   interfaces.QuotaLedger
	log      logger.Logger
	sleep    func(time.Duration)
}

func NewClassificationService(
	backends []BackendDescriptor,
	clients map[Provider]interfaces.BackendClient,
	ledger interfaces.QuotaLedger,
	log logger.Logger,
) interfaces.ClassificationService {
	return &classificationService{
		backends: SortByPriority(backends),
		clients:  clients,
		ledger:   ledger,
		log:      log,
		sleep:    time.Sleep,
	}
}

// NewClassificationServiceWithSleeper substitutes the pacing wait, so
// tests run with a zero-delay clock without altering control flow.
func NewClassificationServiceWithSleeper(
	backends []BackendDescriptor,
	clients map[Provider]interfaces.BackendClient,
	ledger interfaces.QuotaLedger,
	log logger.Logger,
	sleep func(time.Duration),
) interfaces.ClassificationService {
	return &classificationService{
		backends: SortByPriority(backends),
		clients:  clients,
		ledger:   ledger,
		log:      log,
		sleep:    sleep,
	}
}

// ClassifyPoster walks the backend chain in priority order and returns
// the first parsed result. A nil result with nil error means every
// backend was exhausted or failing; that is never fatal to the caller.
func (s *classificationService) ClassifyPoster(ctx context.Context, request dto.ClassifyPosterRequest) (*dto.ClassifyPosterResult, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "classificationService.ClassifyPoster")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	for _, backend := range s.backends {
		outcome := s.tryBackend(ctx, backend, request)

		switch outcome.status {
		case outcomeSuccess:
			span.SetTag("backend.used", backend.ID)
			return &dto.ClassifyPosterResult{
				Classification: outcome.result,
				BackendID:      backend.ID,
			}, nil
		case outcomeQuotaExhausted:
			continue
		case outcomeRequestFailed:
			tracing.TraceErr(span, outcome.err)
			s.log.Warnf("Backend %s failed: %v", backend.ID, outcome.err)
			continue
		}
	}

	s.log.Error("All classification backends failed or exhausted")
	span.SetTag("exhausted", true)
	return nil, nil
}

func (s *classificationService) tryBackend(ctx context.Context, backend BackendDescriptor, request dto.ClassifyPosterRequest) backendOutcome {
	if !s.ledger.CanUse(ctx, backend.ID, backend.RPD) {
		return backendOutcome{status: outcomeQuotaExhausted}
	}

	client, ok := s.clients[backend.Provider]
	if !ok {
		return backendOutcome{
			status: outcomeRequestFailed,
			err:    errors.Errorf("no client configured for provider %s", backend.Provider),
		}
	}

	wait := time.Duration(float64(time.Minute)/float64(backend.RPM)) + pacingSafetyMargin
	s.log.Infof("Using %s (waiting %.1fs)...", backend.ID, wait.Seconds())
	s.sleep(wait)

	result, err := client.Dispatch(ctx, backend.Model, request)

	// The request left the building either way, and the remote side
	// bills the attempt, so the ledger counts dispatches, not successes.
	if recordErr := s.ledger.RecordUse(ctx, backend.ID); recordErr != nil {
		s.log.Errorf("Failed to record quota usage for %s: %v", backend.ID, recordErr)
	}

	if err != nil {
		return backendOutcome{status: outcomeRequestFailed, err: err}
	}

	return backendOutcome{status: outcomeSuccess, result: result}
}
