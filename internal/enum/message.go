package enum

type MessageDisposition string

const (
	// MessageCandidate passed the heuristic filters and may carry a poster.
	MessageCandidate MessageDisposition = "CANDIDATE"
	// MessageIgnoredSubject matched a negative subject keyword.
	MessageIgnoredSubject MessageDisposition = "IGNORED_SUBJECT"
	// MessageIgnoredSender came from a malformed or system-generated sender.
	MessageIgnoredSender MessageDisposition = "IGNORED_SENDER"
	// MessageNoPoster had no attachment that normalized to an image.
	MessageNoPoster MessageDisposition = "NO_POSTER"
	// MessageRejected was classified as not an event.
	MessageRejected MessageDisposition = "REJECTED"
	// MessageUnclassified could not be classified by any backend.
	MessageUnclassified MessageDisposition = "UNCLASSIFIED"
	// MessageEventSaved produced a persisted event record.
	MessageEventSaved MessageDisposition = "EVENT_SAVED"
)

func (d MessageDisposition) String() string {
	return string(d)
}
