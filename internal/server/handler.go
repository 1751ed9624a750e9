package server

import (
	"encoding/base64"
	"fmt"
	"image"
	"net/http"
	"strings"

	"codeberg.org/snonux/vopet/internal/api"
	"codeberg.org/snonux/vopet/internal/language"
	"codeberg.org/snonux/vopet/internal/ledger"
	"codeberg.org/snonux/vopet/internal/ocr"
	"codeberg.org/snonux/vopet/internal/session"
	"codeberg.org/snonux/vopet/internal/store"
)

func (s *Server) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.PingResponse{Status: api.StatusActive})
}

// parseLanguages parses request language codes; empty codes stay Auto.
func parseLanguages(codes ...string) ([]language.Language, error) {
	out := make([]language.Language, len(codes))
	for i, c := range codes {
		l, err := language.Parse(c)
		if err != nil {
			return nil, err
		}
		out[i] = l
	}
	return out, nil
}

func (s *Server) translate(w http.ResponseWriter, r *http.Request) {
	var req api.TranslateRequest
	if err := decode(w, r, &req); err != nil {
		s.writeErr(w, r, err, api.TranslateResponse{Response: api.Fail(err)})
		return
	}
	langs, err := parseLanguages(req.SourceLanguage, req.TargetLanguage)
	if err != nil {
		s.writeErr(w, r, err, api.TranslateResponse{Response: api.Fail(err)})
		return
	}

	res, err := s.session.Translate(r.Context(), req.Text, langs[0], langs[1])
	if err != nil {
		s.writeErr(w, r, err, api.TranslateResponse{Response: api.Fail(err)})
		return
	}
	writeJSON(w, http.StatusOK, api.TranslateResponse{
		Response:       api.OK,
		Translation:    res.Text,
		SourceLanguage: res.Source.String(),
		Service:        res.Service,
		SameLanguage:   res.SameLanguage,
		Cached:         res.Cached,
	})
}

func toAPIWords(lookups []session.WordLookup) []api.Word {
	out := make([]api.Word, len(lookups))
	for i, l := range lookups {
		out[i] = api.Word{
			Word:          l.Word,
			Meaning:       l.Meaning,
			Pronunciation: l.Pronunciation,
			Error:         l.Error,
		}
	}
	return out
}

func (s *Server) words(w http.ResponseWriter, r *http.Request) {
	var req api.WordsRequest
	if err := decode(w, r, &req); err != nil {
		s.writeErr(w, r, err, api.WordsResponse{Response: api.Fail(err)})
		return
	}
	langs, err := parseLanguages(req.TargetLanguage)
	if err != nil {
		s.writeErr(w, r, err, api.WordsResponse{Response: api.Fail(err)})
		return
	}

	lookups, err := s.session.LookupWords(r.Context(), req.Text, langs[0])
	if err != nil {
		s.writeErr(w, r, err, api.WordsResponse{Response: api.Fail(err)})
		return
	}
	writeJSON(w, http.StatusOK, api.WordsResponse{Response: api.OK, Words: toAPIWords(lookups)})
}

// decodeImage accepts plain base64 or a data URL.
func decodeImage(data string) ([]byte, error) {
	if i := strings.Index(data, ","); strings.HasPrefix(data, "data:") && i >= 0 {
		data = data[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("%w: image is not valid base64", errBadRequest)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: image is empty", errBadRequest)
	}
	return raw, nil
}

func (s *Server) ocr(w http.ResponseWriter, r *http.Request) {
	var req api.OCRRequest
	if err := decode(w, r, &req); err != nil {
		s.writeErr(w, r, err, api.OCRResponse{Response: api.Fail(err)})
		return
	}
	img, err := decodeImage(req.Image)
	if err != nil {
		s.writeErr(w, r, err, api.OCRResponse{Response: api.Fail(err)})
		return
	}
	langs, err := parseLanguages(req.Language, req.TargetLanguage)
	if err != nil {
		s.writeErr(w, r, err, api.OCRResponse{Response: api.Fail(err)})
		return
	}

	creq := session.CaptureRequest{
		Image:    img,
		Viewport: image.Pt(req.ViewportWidth, req.ViewportHeight),
		Language: langs[0],
		Target:   langs[1],
	}
	if req.Region != nil {
		creq.Region = &ocr.Region{
			Left:   req.Region.Left,
			Top:    req.Region.Top,
			Width:  req.Region.Width,
			Height: req.Region.Height,
		}
	}

	res, err := s.session.Capture(r.Context(), creq)
	if err != nil {
		s.writeErr(w, r, err, api.OCRResponse{Response: api.Fail(err), Text: res.Text})
		return
	}
	writeJSON(w, http.StatusOK, api.OCRResponse{
		Response:    api.OK,
		Text:        res.Text,
		Translation: res.Translation.Text,
		Words:       toAPIWords(res.Words),
	})
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	var req api.PageRequest
	if err := decode(w, r, &req); err != nil {
		s.writeErr(w, r, err, api.PageResponse{Response: api.Fail(err)})
		return
	}

	p, err := s.session.ReadPage(r.Context(), req.URL)
	if err != nil {
		s.writeErr(w, r, err, api.PageResponse{Response: api.Fail(err)})
		return
	}
	writeJSON(w, http.StatusOK, api.PageResponse{Response: api.OK, Title: p.Title, Text: p.Text})
}

func (s *Server) save(w http.ResponseWriter, r *http.Request) {
	var req api.SaveRequest
	if err := decode(w, r, &req); err != nil {
		s.writeErr(w, r, err, api.SaveResponse{Response: api.Fail(err)})
		return
	}

	rec := ledger.Record{
		Term:          strings.TrimSpace(req.Word),
		Pronunciation: strings.TrimSpace(req.Pronunciation),
		Meaning:       strings.TrimSpace(req.Meaning),
	}
	res, err := s.session.SaveWord(r.Context(), rec, req.Example)
	if err != nil {
		s.writeErr(w, r, err, api.SaveResponse{Response: api.Fail(err)})
		return
	}
	resp := api.SaveResponse{
		Response:    api.OK,
		Sequence:    res.Record.Sequence,
		FileName:    res.FileName,
		HeaderAdded: res.HeaderAdded,
		Malformed:   len(res.Issues),
	}
	if res.FileError != nil {
		resp.FileError = res.FileError.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) records(w http.ResponseWriter, r *http.Request) {
	recs, issues, err := s.session.ListRecords(r.Context())
	if err != nil {
		s.writeErr(w, r, err, api.RecordsResponse{Response: api.Fail(err)})
		return
	}
	out := make([]api.Record, len(recs))
	for i, rec := range recs {
		out[i] = api.Record{
			Sequence:      rec.Sequence,
			Word:          rec.Term,
			Pronunciation: rec.Pronunciation,
			Meaning:       rec.Meaning,
		}
	}
	writeJSON(w, http.StatusOK, api.RecordsResponse{Response: api.OK, Records: out, Malformed: len(issues)})
}

func ledgerResponse(snap store.Snapshot) api.LedgerResponse {
	return api.LedgerResponse{
		Response:     api.OK,
		Connected:    snap.Connected(),
		FileName:     snap.FileName,
		Path:         snap.HandlePath,
		LastModified: snap.LastModified,
	}
}

func (s *Server) ledgerStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := s.session.Status(r.Context())
	if err != nil {
		s.writeErr(w, r, err, api.LedgerResponse{Response: api.Fail(err)})
		return
	}
	writeJSON(w, http.StatusOK, ledgerResponse(snap))
}

func (s *Server) connect(w http.ResponseWriter, r *http.Request) {
	var req api.ConnectRequest
	if err := decode(w, r, &req); err != nil {
		s.writeErr(w, r, err, api.LedgerResponse{Response: api.Fail(err)})
		return
	}

	snap, err := s.session.Connect(r.Context(), req.Path)
	if err != nil {
		s.writeErr(w, r, err, api.LedgerResponse{Response: api.Fail(err)})
		return
	}
	writeJSON(w, http.StatusOK, ledgerResponse(snap))
}

func (s *Server) disconnect(w http.ResponseWriter, r *http.Request) {
	archive, err := s.session.Disconnect(r.Context())
	if err != nil {
		s.writeErr(w, r, err, api.LedgerResponse{Response: api.Fail(err)})
		return
	}
	writeJSON(w, http.StatusOK, api.LedgerResponse{Response: api.OK, Archive: archive})
}
