package interfaces

import "context"

// QuotaLedger tracks per-backend daily usage. Counters are durable
// after every RecordUse and reset implicitly at the day boundary.
type QuotaLedger interface {
	// CanUse reports whether the backend is under its daily budget.
	// Unreadable ledger state degrades to "no usage yet".
	CanUse(ctx context.Context, backendID string, dailyLimit int) bool
	// RecordUse counts one dispatched call and persists immediately.
	RecordUse(ctx context.Context, backendID string) error
}
