package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"codeberg.org/snonux/vopet/internal/language"
	"codeberg.org/snonux/vopet/internal/ocr"
	"codeberg.org/snonux/vopet/internal/translation"
)

// ErrOCRUnavailable is returned by Capture when no OCR extractor is set.
var ErrOCRUnavailable = errors.New("text recognition is not configured")

// CaptureRequest is a screenshot with an optional selected region.
type CaptureRequest struct {
	Image    []byte
	Region   *ocr.Region // nil for the whole image
	Viewport image.Point // size of the visible page the region refers to
	Language language.Language
	Target   language.Language
}

// CaptureResult is the recognized and translated text of a capture.
type CaptureResult struct {
	Text        string             `json:"text"`
	Translation translation.Result `json:"translation"`
	Words       []WordLookup       `json:"words,omitempty"`
}

// Capture recognizes the text in the selected region of a screenshot and
// translates it.
func (s *Session) Capture(ctx context.Context, req CaptureRequest) (CaptureResult, error) {
	if s.ocr == nil {
		return CaptureResult{}, ErrOCRUnavailable
	}

	var (
		img []byte
		err error
	)
	if req.Region != nil {
		img, err = ocr.Crop(req.Image, *req.Region, req.Viewport)
	} else {
		img, err = ocr.ToPNG(req.Image)
	}
	if err != nil {
		return CaptureResult{}, fmt.Errorf("failed to prepare image: %w", err)
	}

	lang := req.Language
	if lang == language.Auto {
		lang = s.cfg.OCRLanguage
	}
	text, err := s.ocr.ExtractText(ctx, img, lang)
	if err != nil {
		return CaptureResult{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return CaptureResult{}, ocr.ErrNoText
	}

	res, err := s.Translate(ctx, text, language.Auto, req.Target)
	if err != nil {
		return CaptureResult{Text: text}, err
	}

	words, err := s.LookupWords(ctx, text, req.Target)
	if err != nil {
		return CaptureResult{Text: text, Translation: res}, err
	}

	return CaptureResult{Text: text, Translation: res, Words: words}, nil
}
