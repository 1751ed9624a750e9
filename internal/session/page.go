package session

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

const maxPageSize = 10 << 20

var (
	rubyText  = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	rubyParen = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// Page is the readable text of a web page.
type Page struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// ReadPage downloads rawURL and extracts its main text.
func (s *Session) ReadPage(ctx context.Context, rawURL string) (Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Page{}, fmt.Errorf("invalid page URL %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Page{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "vopet")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("failed to fetch page: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return Page{}, fmt.Errorf("failed to read page: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(stripRuby(body)), u)
	if err != nil {
		return Page{}, fmt.Errorf("failed to extract page text: %w", err)
	}

	return Page{
		URL:   u.String(),
		Title: strings.TrimSpace(article.Title),
		Text:  strings.TrimSpace(article.TextContent),
	}, nil
}

// stripRuby removes furigana annotations so they do not end up duplicated
// in the extracted text.
func stripRuby(html []byte) []byte {
	html = rubyText.ReplaceAll(html, nil)
	return rubyParen.ReplaceAll(html, nil)
}
