package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/campuspulse/eventstack/internal/enum"
	"github.com/campuspulse/eventstack/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, MigrateDB(db))

	return db
}

func TestProcessedMessageRepository_AddAndExists(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewProcessedMessageRepository(db)
	ctx := context.Background()

	// Act
	err := repo.Add(ctx, "101", enum.MessageEventSaved)

	// Assert
	require.NoError(t, err)
	exists, err := repo.Exists(ctx, "101")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, "102")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProcessedMessageRepository_AddIsIdempotent(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewProcessedMessageRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Add(ctx, "101", enum.MessageEventSaved))

	// Act
	err := repo.Add(ctx, "101", enum.MessageRejected)

	// Assert
	require.NoError(t, err)
	var records []models.ProcessedMessage
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, 1)
	// The first disposition wins
	assert.Equal(t, enum.MessageEventSaved, records[0].Disposition)
}

func TestProcessedMessageRepository_AddRejectsEmptyUID(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewProcessedMessageRepository(db)

	// Act
	err := repo.Add(context.Background(), "", enum.MessageEventSaved)

	// Assert
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProcessedMessageRepository_FilterNewPreservesOrder(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewProcessedMessageRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Add(ctx, "102", enum.MessageNoPoster))
	require.NoError(t, repo.Add(ctx, "104", enum.MessageRejected))

	// Act
	fresh, err := repo.FilterNew(ctx, []string{"105", "104", "103", "102", "101"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"105", "103", "101"}, fresh)
}

func TestProcessedMessageRepository_FilterNewEmptyInput(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewProcessedMessageRepository(db)

	// Act
	fresh, err := repo.FilterNew(context.Background(), nil)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, fresh)
}

func TestQuotaUsageRepository_IncrementCreatesAndCounts(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewQuotaUsageRepository(db)
	ctx := context.Background()

	// Act
	require.NoError(t, repo.Increment(ctx, "2025-03-10", "gemini-2.5-flash"))
	require.NoError(t, repo.Increment(ctx, "2025-03-10", "gemini-2.5-flash"))
	require.NoError(t, repo.Increment(ctx, "2025-03-10", "gemini-2.5-flash-lite"))
	require.NoError(t, repo.Increment(ctx, "2025-03-11", "gemini-2.5-flash"))

	// Assert
	count, err := repo.GetCount(ctx, "2025-03-10", "gemini-2.5-flash")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = repo.GetCount(ctx, "2025-03-10", "gemini-2.5-flash-lite")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = repo.GetCount(ctx, "2025-03-11", "gemini-2.5-flash")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestQuotaUsageRepository_GetCountMissingRowIsZero(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewQuotaUsageRepository(db)

	// Act
	count, err := repo.GetCount(context.Background(), "2025-03-10", "gemini-2.5-flash")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestQuotaUsageRepository_IncrementRejectsEmptyKeys(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewQuotaUsageRepository(db)

	// Act + Assert
	assert.ErrorIs(t, repo.Increment(context.Background(), "", "gemini-2.5-flash"), ErrInvalidInput)
	assert.ErrorIs(t, repo.Increment(context.Background(), "2025-03-10", ""), ErrInvalidInput)
}

func TestEventRepository_CreateAssignsIDAndPersists(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()
	event := &models.Event{
		Title:            "Hackathon 2025",
		Venue:            "Main Auditorium",
		RegistrationLink: "https://forms.gle/abcd",
		EmailUID:         "101",
		BackendID:        "gemini-2.5-flash",
		RawResult: models.JSONMap{
			"event_title": "Hackathon 2025",
		},
	}

	// Act
	id, err := repo.Create(ctx, event)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, id, "evt_")

	events, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Hackathon 2025", events[0].Title)
	assert.Equal(t, "101", events[0].EmailUID)
	assert.Equal(t, "Hackathon 2025", events[0].RawResult["event_title"])
}

func TestEventRepository_CreateRejectsNil(t *testing.T) {
	// Arrange
	db := setupTestDB(t)
	repo := NewEventRepository(db)

	// Act
	_, err := repo.Create(context.Background(), nil)

	// Assert
	assert.ErrorIs(t, err, ErrInvalidInput)
}
