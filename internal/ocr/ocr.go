package ocr

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/snonux/vopet/internal/language"
)

// Extractor recognizes text in an image.
type Extractor interface {
	ExtractText(ctx context.Context, image []byte, lang language.Language) (string, error)
}

// ErrNoText is returned when no engine found any text in the image.
var ErrNoText = errors.New("no text found in image")

// Error is a failure reported by the OCR service.
type Error struct {
	Engine  string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("ocr engine %s (%d): %s", e.Engine, e.Status, msg)
	}
	return fmt.Sprintf("ocr engine %s: %s", e.Engine, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}
