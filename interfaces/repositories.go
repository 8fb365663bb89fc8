package interfaces

import (
	"context"

	"github.com/campuspulse/eventstack/internal/enum"
	"github.com/campuspulse/eventstack/internal/models"
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) (string, error)
	ListAll(ctx context.Context) ([]*models.Event, error)
}

type ProcessedMessageRepository interface {
	Exists(ctx context.Context, uid string) (bool, error)
	Add(ctx context.Context, uid string, disposition enum.MessageDisposition) error
	// FilterNew returns the subset of uids not yet in the log,
	// preserving order.
	FilterNew(ctx context.Context, uids []string) ([]string, error)
}

type QuotaUsageRepository interface {
	GetCount(ctx context.Context, day, backendID string) (int, error)
	Increment(ctx context.Context, day, backendID string) error
}
