package poster

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuspulse/eventstack/dto"
)

func TestNormalize_ImageAttachmentBecomesJPEG(t *testing.T) {
	// Arrange
	normalizer := NewPosterNormalizer(getLogger())
	attachment := dto.InboundAttachment{
		Filename:    "poster.png",
		ContentType: "image/png",
		Content:     plainImagePNG(t),
	}

	// Act
	result, err := normalizer.Normalize(context.Background(), attachment)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	img, format, err := image.Decode(bytes.NewReader(result))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestNormalize_JPEGPassesThroughReencoded(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 32)), nil))
	normalizer := NewPosterNormalizer(getLogger())
	attachment := dto.InboundAttachment{
		Filename:    "poster.jpg",
		ContentType: "image/jpeg",
		Content:     buf.Bytes(),
	}

	// Act
	result, err := normalizer.Normalize(context.Background(), attachment)

	// Assert
	require.NoError(t, err)
	_, format, err := image.Decode(bytes.NewReader(result))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestNormalize_CorruptImageFails(t *testing.T) {
	// Arrange
	normalizer := NewPosterNormalizer(getLogger())
	attachment := dto.InboundAttachment{
		Filename:    "poster.png",
		ContentType: "image/png",
		Content:     []byte("definitely not pixels"),
	}

	// Act
	result, err := normalizer.Normalize(context.Background(), attachment)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestNormalize_CorruptPDFFails(t *testing.T) {
	// Arrange
	normalizer := NewPosterNormalizer(getLogger())
	attachment := dto.InboundAttachment{
		Filename:    "poster.pdf",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-not-really"),
	}

	// Act
	result, err := normalizer.Normalize(context.Background(), attachment)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestNormalize_UnsupportedContentTypeIsSkipped(t *testing.T) {
	// Arrange
	normalizer := NewPosterNormalizer(getLogger())
	attachment := dto.InboundAttachment{
		Filename:    "agenda.docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Content:     []byte{0x50, 0x4b},
	}

	// Act
	result, err := normalizer.Normalize(context.Background(), attachment)

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, result)
}
