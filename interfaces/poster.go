package interfaces

import (
	"context"

	"github.com/campuspulse/eventstack/dto"
)

// PosterNormalizer turns a supported attachment into a single JPEG
// raster. A nil image with a nil error means the attachment is skipped.
type PosterNormalizer interface {
	Normalize(ctx context.Context, attachment dto.InboundAttachment) ([]byte, error)
}

// QRDecoder extracts an embedded payload from a poster image.
// Absence of a QR code is a normal outcome, reported as "".
type QRDecoder interface {
	Decode(ctx context.Context, imageBytes []byte) string
}
