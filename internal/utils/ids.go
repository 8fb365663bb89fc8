package utils

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func GenerateNanoIDWithPrefix(prefix string, length int) string {
	id, err := gonanoid.Generate(idAlphabet, length)
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%s_%s", prefix, id)
}

func Now() time.Time {
	return time.Now().UTC()
}

// PosterAssetKey derives the stored filename for a confirmed event's
// poster from the run timestamp and the source message UID.
func PosterAssetKey(now time.Time, uid string) string {
	return fmt.Sprintf("%s_%s.jpg", now.Format("20060102_150405"), uid)
}
