package interfaces

import (
	"golang.org/x/net/context"

	"github.com/campuspulse/eventstack/dto"
)

// ClassificationService runs the backend fallback chain for one poster.
// A nil result with a nil error means no backend could classify the
// poster; the caller moves on.
type ClassificationService interface {
	ClassifyPoster(ctx context.Context, request dto.ClassifyPosterRequest) (*dto.ClassifyPosterResult, error)
}

// BackendClient dispatches a single classification request to one
// remote model.
type BackendClient interface {
	Dispatch(ctx context.Context, model string, request dto.ClassifyPosterRequest) (*dto.PosterClassification, error)
}
