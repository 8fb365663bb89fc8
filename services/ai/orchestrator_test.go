package ai

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuspulse/eventstack/dto"
	"github.com/campuspulse/eventstack/interfaces"
	"github.com/campuspulse/eventstack/internal/logger"
)

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

type fakeLedger struct {
	exhausted map[string]bool
	recorded  []string
}

func (l *fakeLedger) CanUse(ctx context.Context, backendID string, dailyLimit int) bool {
	return !l.exhausted[backendID]
}

func (l *fakeLedger) RecordUse(ctx context.Context, backendID string) error {
	l.recorded = append(l.recorded, backendID)
	return nil
}

type fakeBackendClient struct {
	dispatched []string
	err        error
	result     *dto.PosterClassification
}

func (c *fakeBackendClient) Dispatch(ctx context.Context, model string, request dto.ClassifyPosterRequest) (*dto.PosterClassification, error) {
	c.dispatched = append(c.dispatched, model)
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

func noSleep(time.Duration) {}

func testBackends() []BackendDescriptor {
	return []BackendDescriptor{
		{ID: "tier-1", Provider: ProviderGemini, Model: "tier-1", RPM: 5, RPD: 100, Priority: 1},
		{ID: "tier-2", Provider: ProviderGemini, Model: "tier-2", RPM: 10, RPD: 100, Priority: 2},
		{ID: "tier-3", Provider: ProviderGemini, Model: "tier-3", RPM: 10, RPD: 100, Priority: 3},
	}
}

func TestClassifyPoster_UsesHighestPriorityBackend(t *testing.T) {
	// Arrange
	client := &fakeBackendClient{result: &dto.PosterClassification{IsEvent: true, EventTitle: "Tech Fest"}}
	ledger := &fakeLedger{exhausted: map[string]bool{}}
	service := NewClassificationServiceWithSleeper(
		testBackends(),
		map[Provider]interfaces.BackendClient{ProviderGemini: client},
		ledger, getLogger(), noSleep,
	)

	// Act
	result, err := service.ClassifyPoster(context.Background(), dto.ClassifyPosterRequest{})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "tier-1", result.BackendID)
	assert.Equal(t, "Tech Fest", result.Classification.EventTitle)
	assert.Equal(t, []string{"tier-1"}, client.dispatched)
}

func TestClassifyPoster_SkipsExhaustedBackendsWithoutDispatching(t *testing.T) {
	// Arrange
	client := &fakeBackendClient{result: &dto.PosterClassification{IsEvent: false}}
	ledger := &fakeLedger{exhausted: map[string]bool{"tier-1": true, "tier-2": true}}
	service := NewClassificationServiceWithSleeper(
		testBackends(),
		map[Provider]interfaces.BackendClient{ProviderGemini: client},
		ledger, getLogger(), noSleep,
	)

	// Act
	result, err := service.ClassifyPoster(context.Background(), dto.ClassifyPosterRequest{})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "tier-3", result.BackendID)
	// Exhausted tiers never reach the network
	assert.Equal(t, []string{"tier-3"}, client.dispatched)
	assert.Equal(t, []string{"tier-3"}, ledger.recorded)
}

func TestClassifyPoster_AllBackendsExhaustedReturnsNil(t *testing.T) {
	// Arrange
	client := &fakeBackendClient{}
	ledger := &fakeLedger{exhausted: map[string]bool{"tier-1": true, "tier-2": true, "tier-3": true}}
	service := NewClassificationServiceWithSleeper(
		testBackends(),
		map[Provider]interfaces.BackendClient{ProviderGemini: client},
		ledger, getLogger(), noSleep,
	)

	// Act
	result, err := service.ClassifyPoster(context.Background(), dto.ClassifyPosterRequest{})

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.Empty(t, client.dispatched)
	assert.Empty(t, ledger.recorded)
}

func TestClassifyPoster_FailedDispatchStillCountsAgainstQuota(t *testing.T) {
	// Arrange
	client := &fakeBackendClient{err: errors.New("rate limited")}
	ledger := &fakeLedger{exhausted: map[string]bool{}}
	service := NewClassificationServiceWithSleeper(
		testBackends(),
		map[Provider]interfaces.BackendClient{ProviderGemini: client},
		ledger, getLogger(), noSleep,
	)

	// Act
	result, err := service.ClassifyPoster(context.Background(), dto.ClassifyPosterRequest{})

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, result)
	// Every tier was tried and every dispatch was billed
	assert.Equal(t, []string{"tier-1", "tier-2", "tier-3"}, client.dispatched)
	assert.Equal(t, []string{"tier-1", "tier-2", "tier-3"}, ledger.recorded)
}

func TestClassifyPoster_PacesBeforeEveryDispatch(t *testing.T) {
	// Arrange
	var waits []time.Duration
	client := &fakeBackendClient{result: &dto.PosterClassification{IsEvent: true}}
	ledger := &fakeLedger{exhausted: map[string]bool{}}
	service := NewClassificationServiceWithSleeper(
		testBackends(),
		map[Provider]interfaces.BackendClient{ProviderGemini: client},
		ledger, getLogger(),
		func(d time.Duration) { waits = append(waits, d) },
	)

	// Act
	_, err := service.ClassifyPoster(context.Background(), dto.ClassifyPosterRequest{})

	// Assert
	require.NoError(t, err)
	require.Len(t, waits, 1)
	// 60s/5rpm + 2s margin
	assert.Equal(t, 14*time.Second, waits[0])
}

func TestSortByPriority(t *testing.T) {
	// Arrange
	backends := []BackendDescriptor{
		{ID: "c", Priority: 3},
		{ID: "a", Priority: 1},
		{ID: "b", Priority: 2},
	}

	// Act
	sorted := SortByPriority(backends)

	// Assert
	assert.Equal(t, "a", sorted[0].ID)
	assert.Equal(t, "b", sorted[1].ID)
	assert.Equal(t, "c", sorted[2].ID)
	// Input order untouched
	assert.Equal(t, "c", backends[0].ID)
}

func TestDefaultBackends_OpenAIOnlyWithKey(t *testing.T) {
	// Arrange + Act
	withoutKey := DefaultBackends(nil, nil)

	// Assert
	assert.Len(t, withoutKey, 3)
	for _, b := range withoutKey {
		assert.Equal(t, ProviderGemini, b.Provider)
	}
}
