package pronunciation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"codeberg.org/snonux/vopet/internal/language"
)

type fakeReader map[string]string

func (f fakeReader) Reading(text string) (string, bool) {
	r, ok := f[text]
	return r, ok
}

type fakeProvider struct {
	name  string
	out   string
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Pronounce(ctx context.Context, term string, lang language.Language) (string, error) {
	f.calls++
	return f.out, f.err
}

func TestKanaProvider(t *testing.T) {
	k := NewKanaProvider(fakeReader{"日本語": "にほんご"})

	tests := []struct {
		term string
		lang language.Language
		want string
	}{
		{"日本語", language.Japanese, "にほんご"},
		{" 日本語 ", language.Auto, "にほんご"},
		{"日本語", language.Korean, ""},
		{"漢字", language.Japanese, ""},
		{"apple", language.Auto, ""},
	}

	for _, tt := range tests {
		got, err := k.Pronounce(context.Background(), tt.term, tt.lang)
		if err != nil {
			t.Errorf("Pronounce(%q) failed: %v", tt.term, err)
		}
		if got != tt.want {
			t.Errorf("Pronounce(%q, %v) = %q, want %q", tt.term, tt.lang, got, tt.want)
		}
	}
}

func TestChain_FirstNonEmpty(t *testing.T) {
	failing := &fakeProvider{name: "failing", err: errors.New("down")}
	empty := &fakeProvider{name: "empty"}
	good := &fakeProvider{name: "good", out: " /kæt/ "}
	unused := &fakeProvider{name: "unused", out: "x"}

	c := NewChain(nil, failing, nil, empty, good, unused)
	got, err := c.Pronounce(context.Background(), "cat", language.English)
	if err != nil {
		t.Fatalf("Pronounce failed: %v", err)
	}
	if got != "/kæt/" {
		t.Errorf("Expected /kæt/, got %q", got)
	}
	if unused.calls != 0 {
		t.Error("Providers after the first answer must not be asked")
	}
}

func TestChain_AllEmpty(t *testing.T) {
	c := NewChain(nil, &fakeProvider{name: "a", err: errors.New("x")})
	got, err := c.Pronounce(context.Background(), "cat", language.English)
	if err != nil || got != "" {
		t.Errorf("Expected empty pronunciation without error, got %q, %v", got, err)
	}
}

func TestOpenAIProvider_NoAPIKey(t *testing.T) {
	_, err := NewOpenAIProvider("", "", "").Pronounce(context.Background(), "apple", language.English)
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("Expected ErrNoAPIKey, got %v", err)
	}
}

func TestOpenAIProvider_Pronounce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Bad request: %v", err)
		}
		if len(body.Messages) != 2 || !strings.Contains(body.Messages[1].Content, "English word 'apple'") {
			t.Errorf("Unexpected messages %+v", body.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" /ˈæp.əl/\n"}}]}`)
	}))
	defer server.Close()

	p := NewOpenAIProvider("test-key", "", server.URL+"/v1")
	got, err := p.Pronounce(context.Background(), "apple", language.Auto)
	if err != nil {
		t.Fatalf("Pronounce failed: %v", err)
	}
	if got != "/ˈæp.əl/" {
		t.Errorf("Expected /ˈæp.əl/, got %q", got)
	}
}

func TestOpenAIProvider_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	got, err := NewOpenAIProvider(apiKey, "", "").Pronounce(context.Background(), "apple", language.English)
	if err != nil {
		t.Fatalf("Pronounce failed: %v", err)
	}
	t.Logf("Pronunciation of 'apple': %s", got)
}
