package poster

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/gen2brain/go-fitz"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/campuspulse/eventstack/dto"
	"github.com/campuspulse/eventstack/interfaces"
	"github.com/campuspulse/eventstack/internal/logger"
	"github.com/campuspulse/eventstack/internal/tracing"
)

const (
	// 300 DPI balances text/QR legibility against payload size.
	pdfRenderDPI = 300
	jpegQuality  = 90
)

// PosterMimeType is the content type of every normalized poster.
const PosterMimeType = "image/jpeg"

type posterNormalizer struct {
	log logger.Logger
}

func NewPosterNormalizer(log logger.Logger) interfaces.PosterNormalizer {
	return &posterNormalizer{
		log: log,
	}
}

// Normalize converts a raster or PDF attachment into a single JPEG.
// Unsupported content types and zero-page documents come back as
// (nil, nil); the attachment is skipped, never fatal to the message.
func (s *posterNormalizer) Normalize(ctx context.Context, attachment dto.InboundAttachment) ([]byte, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "posterNormalizer.Normalize")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("content_type", attachment.ContentType)

	switch {
	case strings.Contains(attachment.ContentType, "image"):
		img, err := decodeImage(attachment.Content)
		if err != nil {
			tracing.TraceErr(span, err)
			return nil, err
		}
		return encodeJPEG(img)

	case strings.Contains(attachment.ContentType, "pdf"):
		img, err := s.rasterizeFirstPage(attachment.Content)
		if err != nil {
			tracing.TraceErr(span, err)
			return nil, err
		}
		if img == nil {
			span.SetTag("empty_document", true)
			return nil, nil
		}
		return encodeJPEG(img)

	default:
		return nil, nil
	}
}

func (s *posterNormalizer) rasterizeFirstPage(pdfBytes []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open document")
	}
	defer doc.Close()

	if doc.NumPage() < 1 {
		return nil, nil
	}

	img, err := doc.ImageDPI(0, pdfRenderDPI)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render first page")
	}

	return img, nil
}

func decodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode image")
	}
	return img, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, errors.Wrap(err, "failed to encode jpeg")
	}
	return buf.Bytes(), nil
}
