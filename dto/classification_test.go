package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosterClassification_CompleteEventPayload(t *testing.T) {
	// Arrange
	payload := []byte(`{
		"is_event": true,
		"event_title": "Hackathon 2025",
		"venue": "Main Auditorium",
		"start_date": "2025-03-15",
		"end_date": "2025-03-16",
		"registration_fee": "Free",
		"team_size": "2-4",
		"category": "Technical",
		"registration_link": "https://forms.gle/abcd",
		"organizer": "CSE Department"
	}`)

	// Act
	result, err := ParsePosterClassification(payload)

	// Assert
	require.NoError(t, err)
	assert.True(t, result.IsEvent)
	assert.Equal(t, "Hackathon 2025", result.EventTitle)
	assert.Equal(t, "https://forms.gle/abcd", result.RegistrationLink)
}

func TestParsePosterClassification_NonEventNeedsNoFields(t *testing.T) {
	// Arrange
	payload := []byte(`{"is_event": false}`)

	// Act
	result, err := ParsePosterClassification(payload)

	// Assert
	require.NoError(t, err)
	assert.False(t, result.IsEvent)
}

func TestParsePosterClassification_MissingDecisionFlagFails(t *testing.T) {
	// Arrange
	payload := []byte(`{"event_title": "Hackathon 2025"}`)

	// Act
	result, err := ParsePosterClassification(payload)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestParsePosterClassification_EventMissingFieldFails(t *testing.T) {
	// Arrange
	payload := []byte(`{
		"is_event": true,
		"event_title": "Hackathon 2025",
		"venue": "Main Auditorium",
		"start_date": "2025-03-15",
		"end_date": "2025-03-16",
		"registration_fee": "Free",
		"team_size": "2-4",
		"category": "Technical",
		"registration_link": "https://forms.gle/abcd"
	}`)

	// Act
	result, err := ParsePosterClassification(payload)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "organizer")
	assert.Nil(t, result)
}

func TestParsePosterClassification_NotJSONFails(t *testing.T) {
	// Act
	result, err := ParsePosterClassification([]byte("I could not read the poster"))

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
}
