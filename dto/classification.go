package dto

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ClassifyPosterRequest carries one normalized poster image to the
// classification backends, with the QR payload (if any) as context.
type ClassifyPosterRequest struct {
	ImageBytes []byte
	MimeType   string
	QRLink     string
}

// PosterClassification is the fixed shape every backend must return.
// IsEvent is a decision artifact; it is stripped before persistence.
type PosterClassification struct {
	IsEvent          bool   `json:"is_event"`
	EventTitle       string `json:"event_title"`
	Venue            string `json:"venue"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	RegistrationFee  string `json:"registration_fee"`
	TeamSize         string `json:"team_size"`
	Category         string `json:"category"`
	RegistrationLink string `json:"registration_link"`
	Organizer        string `json:"organizer"`
}

// ClassifyPosterResult pairs the parsed classification with the
// backend that produced it.
type ClassifyPosterResult struct {
	Classification *PosterClassification
	BackendID      string
}

var eventFieldKeys = []string{
	"event_title", "venue", "start_date", "end_date", "registration_fee",
	"team_size", "category", "registration_link", "organizer",
}

// ParsePosterClassification validates a backend payload. A payload
// without is_event, or an is_event=true payload missing any of the
// nine descriptive fields, counts as a backend failure rather than a
// partially trusted result.
func ParsePosterClassification(payload []byte) (*PosterClassification, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, errors.Wrap(err, "response is not a JSON object")
	}

	if _, ok := raw["is_event"]; !ok {
		return nil, errors.New("response is missing is_event")
	}

	var result PosterClassification
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, errors.Wrap(err, "response does not match the expected shape")
	}

	if result.IsEvent {
		for _, key := range eventFieldKeys {
			if _, ok := raw[key]; !ok {
				return nil, errors.Errorf("response is missing %s", key)
			}
		}
	}

	return &result, nil
}

// RawMap returns the classification as a generic map for audit storage.
func (c *PosterClassification) RawMap() map[string]interface{} {
	return map[string]interface{}{
		"is_event":          c.IsEvent,
		"event_title":       c.EventTitle,
		"venue":             c.Venue,
		"start_date":        c.StartDate,
		"end_date":          c.EndDate,
		"registration_fee":  c.RegistrationFee,
		"team_size":         c.TeamSize,
		"category":          c.Category,
		"registration_link": c.RegistrationLink,
		"organizer":         c.Organizer,
	}
}
