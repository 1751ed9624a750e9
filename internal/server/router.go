package server

import (
	"net/http"
	"time"

	"codeberg.org/snonux/vopet/internal/api"
)

// Router returns the handler chain of the service.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+api.PathPing, s.ping)

	mux.HandleFunc("POST "+api.PathTranslate, s.translate)
	mux.HandleFunc("POST "+api.PathWords, s.words)
	mux.HandleFunc("POST "+api.PathOCR, s.ocr)
	mux.HandleFunc("POST "+api.PathPage, s.page)

	mux.HandleFunc("POST "+api.PathSave, s.save)
	mux.HandleFunc("GET "+api.PathRecords, s.records)
	mux.HandleFunc("GET "+api.PathLedger, s.ledgerStatus)
	mux.HandleFunc("POST "+api.PathConnect, s.connect)
	mux.HandleFunc("POST "+api.PathDisconnect, s.disconnect)

	return s.withCORS(s.withLogging(mux))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

// withCORS lets extension pages and content scripts call the service.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
