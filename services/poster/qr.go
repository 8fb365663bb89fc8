package poster

import (
	"bytes"
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/opentracing/opentracing-go"

	"github.com/campuspulse/eventstack/interfaces"
	"github.com/campuspulse/eventstack/internal/logger"
	"github.com/campuspulse/eventstack/internal/tracing"
)

// contrastBoost doubles the perceived contrast of the grayscale pass,
// which recovers QR codes printed over busy poster artwork.
const contrastBoost = 100

type qrRecoveryDecoder struct {
	log logger.Logger
	// decodeFn runs one decode attempt on one image variant.
	decodeFn func(img image.Image) (string, error)
}

func NewQRRecoveryDecoder(log logger.Logger) interfaces.QRDecoder {
	return &qrRecoveryDecoder{
		log:      log,
		decodeFn: decodeQR,
	}
}

// Decode tries up to three passes in strict order and returns on the
// first hit: the unmodified image, a grayscale contrast-enhanced
// variant, then a full color inversion for light-on-dark codes.
// Every decode error is swallowed; a missing QR code is a normal
// outcome, not a failure.
func (d *qrRecoveryDecoder) Decode(ctx context.Context, imageBytes []byte) string {
	span, _ := opentracing.StartSpanFromContext(ctx, "qrRecoveryDecoder.Decode")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return ""
	}

	if text, err := d.decodeFn(img); err == nil && text != "" {
		span.SetTag("pass", "original")
		return text
	}

	enhanced := imaging.AdjustContrast(imaging.Grayscale(img), contrastBoost)
	if text, err := d.decodeFn(enhanced); err == nil && text != "" {
		span.SetTag("pass", "enhanced")
		return text
	}

	inverted := imaging.Invert(img)
	if text, err := d.decodeFn(inverted); err == nil && text != "" {
		span.SetTag("pass", "inverted")
		return text
	}

	return ""
}

func decodeQR(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", err
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", err
	}

	return result.GetText(), nil
}
