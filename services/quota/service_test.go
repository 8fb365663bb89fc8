package quota

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/campuspulse/eventstack/internal/logger"
)

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

type fakeQuotaRepo struct {
	counts     map[string]int
	getErr     error
	increments []string
}

func (r *fakeQuotaRepo) GetCount(ctx context.Context, day, backendID string) (int, error) {
	if r.getErr != nil {
		return 0, r.getErr
	}
	return r.counts[day+"/"+backendID], nil
}

func (r *fakeQuotaRepo) Increment(ctx context.Context, day, backendID string) error {
	r.increments = append(r.increments, day+"/"+backendID)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCanUse_UnderLimit(t *testing.T) {
	// Arrange
	day := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &fakeQuotaRepo{counts: map[string]int{"2025-03-10/gemini-2.5-flash": 1399}}
	ledger := NewQuotaLedgerWithClock(repo, getLogger(), fixedClock(day))

	// Act + Assert
	assert.True(t, ledger.CanUse(context.Background(), "gemini-2.5-flash", 1400))
}

func TestCanUse_AtLimit(t *testing.T) {
	// Arrange
	day := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &fakeQuotaRepo{counts: map[string]int{"2025-03-10/gemini-2.5-flash": 1400}}
	ledger := NewQuotaLedgerWithClock(repo, getLogger(), fixedClock(day))

	// Act + Assert
	assert.False(t, ledger.CanUse(context.Background(), "gemini-2.5-flash", 1400))
}

func TestCanUse_DayBoundaryResetsBudget(t *testing.T) {
	// Arrange
	repo := &fakeQuotaRepo{counts: map[string]int{"2025-03-10/gemini-2.5-flash": 1400}}
	log := getLogger()

	yesterday := NewQuotaLedgerWithClock(repo, log, fixedClock(time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)))
	today := NewQuotaLedgerWithClock(repo, log, fixedClock(time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC)))

	// Act + Assert
	assert.False(t, yesterday.CanUse(context.Background(), "gemini-2.5-flash", 1400))
	assert.True(t, today.CanUse(context.Background(), "gemini-2.5-flash", 1400))
}

func TestCanUse_UnreadableLedgerNeverBlocks(t *testing.T) {
	// Arrange
	repo := &fakeQuotaRepo{getErr: errors.New("disk gone")}
	ledger := NewQuotaLedgerWithClock(repo, getLogger(), fixedClock(time.Now()))

	// Act + Assert
	assert.True(t, ledger.CanUse(context.Background(), "gemini-2.5-flash", 1400))
}

func TestRecordUse_WritesTodaysRow(t *testing.T) {
	// Arrange
	day := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &fakeQuotaRepo{counts: map[string]int{}}
	ledger := NewQuotaLedgerWithClock(repo, getLogger(), fixedClock(day))

	// Act
	err := ledger.RecordUse(context.Background(), "gemini-2.5-flash")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, []string{"2025-03-10/gemini-2.5-flash"}, repo.increments)
}
