package interfaces

import (
	"context"

	"github.com/campuspulse/eventstack/dto"
)

// IntakeService drives one full pipeline run.
type IntakeService interface {
	Run(ctx context.Context) (*dto.RunReport, error)
}
