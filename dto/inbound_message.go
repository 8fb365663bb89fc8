package dto

import "time"

// InboundAttachment is one MIME attachment payload with its declared
// content type. It is never persisted; it either normalizes into a
// poster image or is discarded.
type InboundAttachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// InboundMessage is one fetched mail message, immutable for the
// duration of a pipeline run.
type InboundMessage struct {
	UID         string
	Subject     string
	BodyText    string
	FromAddress string
	ReceivedAt  time.Time
	Attachments []InboundAttachment
}

// RunReport summarizes one intake run.
type RunReport struct {
	Matched     int // UIDs matching the search criteria
	Known       int // already in the dedup log
	Scanned     int // messages actually fetched and processed
	Ignored     int // dropped by heuristic filters
	NoPoster    int // no attachment normalized to an image
	Rejected    int // classified as not an event
	EventsSaved int
}
