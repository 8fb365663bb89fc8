package interfaces

import (
	"context"

	"github.com/campuspulse/eventstack/dto"
	"github.com/campuspulse/eventstack/internal/enum"
)

// MessageFilter applies the zero-cost heuristics that run before any
// classification call.
type MessageFilter interface {
	Scan(ctx context.Context, message *dto.InboundMessage) (enum.MessageDisposition, string)
}
