package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"codeberg.org/snonux/vopet/internal/language"
	"codeberg.org/snonux/vopet/internal/ledger"
	"codeberg.org/snonux/vopet/internal/ocr"
	"codeberg.org/snonux/vopet/internal/session"
	"codeberg.org/snonux/vopet/internal/store"
	"codeberg.org/snonux/vopet/internal/translation"
)

// errBadRequest marks undecodable request bodies.
var errBadRequest = errors.New("invalid request")

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr writes v, whose envelope already carries the error, with the
// status code matching err.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error, v any) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", code, "error", err)
	}
	writeJSON(w, code, v)
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// statusFor maps errors to HTTP status codes.
func statusFor(err error) int {
	var (
		trErr  *translation.Error
		ocrErr *ocr.Error
	)
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, ledger.ErrEmptyTerm),
		errors.Is(err, ledger.ErrEmptyMeaning),
		errors.Is(err, translation.ErrEmptyText),
		errors.Is(err, language.ErrUnsupported),
		errors.Is(err, store.ErrUnsupportedLedgerFormat),
		errors.Is(err, ocr.ErrEmptyRegion):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNoLedgerConfigured),
		errors.Is(err, store.ErrEmptyLedgerContent),
		errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ocr.ErrNoText),
		errors.Is(err, translation.ErrNoTranslation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, translation.ErrMissingAPIKey),
		errors.Is(err, session.ErrOCRUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &trErr), errors.As(err, &ocrErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
