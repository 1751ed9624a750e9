package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"codeberg.org/snonux/vopet/internal/language"
)

type fakeTranslator struct {
	calls int
	err   error
}

func (f *fakeTranslator) Name() string { return "fake" }

func (f *fakeTranslator) Translate(ctx context.Context, req Request) (Result, error) {
	f.calls++
	if f.err != nil {
		return Result{}, f.err
	}
	source := req.Source
	if source == language.Auto {
		source = language.Detect(req.Text)
	}
	return Result{Text: "T:" + req.Text, Source: source, Service: "fake"}, nil
}

func TestGoogleFree_JoinsSegments(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `[[["안녕하세요. ","Hello. ",null,null,10],["잘 지내요?","How are you?",null,null,10]],null,"en"]`)
	}))
	defer server.Close()

	g := NewGoogleFree(server.URL)
	res, err := g.Translate(context.Background(), Request{Text: "Hello. How are you?", Target: language.Korean})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if res.Text != "안녕하세요. 잘 지내요?" {
		t.Errorf("Expected joined segments, got %q", res.Text)
	}
	if res.Source != language.English {
		t.Errorf("Expected detected source en, got %v", res.Source)
	}
	checks := map[string]string{"client": "gtx", "sl": "en", "tl": "ko", "dt": "t", "q": "Hello. How are you?"}
	for k, v := range checks {
		if got := gotQuery[k]; len(got) != 1 || got[0] != v {
			t.Errorf("Query %s = %v, want %q", k, got, v)
		}
	}
}

func TestGoogleFree_SameLanguage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("No request expected for same-language text")
	}))
	defer server.Close()

	res, err := NewGoogleFree(server.URL).Translate(context.Background(), Request{Text: "안녕", Target: language.Korean})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if !res.SameLanguage || res.Text != "안녕" {
		t.Errorf("Expected unchanged same-language result, got %+v", res)
	}
}

func TestGoogleFree_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "boom"},
		{"not json", http.StatusOK, "<html>"},
		{"empty segments", http.StatusOK, `[[],null,"en"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			_, err := NewGoogleFree(server.URL).Translate(context.Background(), Request{Text: "hello", Target: language.Korean})
			var tErr *Error
			if !errors.As(err, &tErr) {
				t.Fatalf("Expected *Error, got %v", err)
			}
			if tErr.Service != "google-free" {
				t.Errorf("Expected service google-free, got %q", tErr.Service)
			}
		})
	}

	_, err := NewGoogleFree("http://unused").Translate(context.Background(), Request{Text: "  "})
	if !errors.Is(err, ErrEmptyText) {
		t.Errorf("Expected ErrEmptyText, got %v", err)
	}
}

func TestGoogleCloud_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Query().Get("key") != "k123" {
			t.Errorf("Expected key in query, got %q", r.URL.RawQuery)
		}
		var body googleCloudRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Bad request body: %v", err)
		}
		if body.Q != "cat" || body.Target != "ja" || body.Format != "text" {
			t.Errorf("Unexpected body %+v", body)
		}
		fmt.Fprint(w, `{"data":{"translations":[{"translatedText":"猫"}]}}`)
	}))
	defer server.Close()

	res, err := NewGoogleCloud("k123", server.URL).Translate(context.Background(), Request{Text: "cat", Target: language.Japanese})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Text != "猫" {
		t.Errorf("Expected 猫, got %q", res.Text)
	}

	_, err = NewGoogleCloud("", server.URL).Translate(context.Background(), Request{Text: "cat", Target: language.Japanese})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Expected ErrMissingAPIKey, got %v", err)
	}
}

func TestGoogleCloud_ErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"code":400,"message":"API key not valid"}}`)
	}))
	defer server.Close()

	_, err := NewGoogleCloud("bad", server.URL).Translate(context.Background(), Request{Text: "cat", Target: language.Korean})
	var tErr *Error
	if !errors.As(err, &tErr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if tErr.Status != http.StatusBadRequest || tErr.Message != "API key not valid" {
		t.Errorf("Unexpected error %+v", tErr)
	}
}

func TestDeepL_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "DeepL-Auth-Key secret" {
			t.Errorf("Unexpected Authorization header %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		if r.PostForm.Get("text") != "hello" || r.PostForm.Get("target_lang") != "KO" {
			t.Errorf("Unexpected form %v", r.PostForm)
		}
		if _, ok := r.PostForm["source_lang"]; ok {
			t.Error("source_lang must not be sent for automatic detection")
		}
		fmt.Fprint(w, `{"translations":[{"detected_source_language":"EN","text":"안녕"}]}`)
	}))
	defer server.Close()

	res, err := NewDeepL(" secret ", server.URL).Translate(context.Background(), Request{Text: "hello", Target: language.Korean})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Text != "안녕" {
		t.Errorf("Expected 안녕, got %q", res.Text)
	}
}

func TestDeepL_SourceLang(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "source_lang=JA") {
			t.Errorf("Expected source_lang=JA in %q", body)
		}
		fmt.Fprint(w, `{"translations":[{"text":"먹다"}]}`)
	}))
	defer server.Close()

	_, err := NewDeepL("k", server.URL).Translate(context.Background(), Request{
		Text: "食べる", Source: language.Japanese, Target: language.Korean,
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
}

func TestDeepL_StatusMessages(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   string
	}{
		{http.StatusForbidden, "", "invalid API key"},
		{StatusQuotaExceeded, "", "quota"},
		{http.StatusBadRequest, `{"message":"Value for 'target_lang' not supported."}`, "target_lang"},
		{http.StatusInternalServerError, "", "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			_, err := NewDeepL("k", server.URL).Translate(context.Background(), Request{Text: "hello", Target: language.Korean})
			var tErr *Error
			if !errors.As(err, &tErr) {
				t.Fatalf("Expected *Error, got %v", err)
			}
			if tErr.Status != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, tErr.Status)
			}
			if !strings.Contains(tErr.Message, tt.want) {
				t.Errorf("Expected message containing %q, got %q", tt.want, tErr.Message)
			}
		})
	}
}

func TestDeepL_RequestKeyOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "DeepL-Auth-Key per-request" {
			t.Errorf("Unexpected Authorization header %q", got)
		}
		fmt.Fprint(w, `{"translations":[{"text":"x"}]}`)
	}))
	defer server.Close()

	_, err := NewDeepL("", server.URL).Translate(context.Background(), Request{Text: "hello", Target: language.Korean, APIKey: "per-request"})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
}

func TestCache_FIFOEviction(t *testing.T) {
	cache := NewCache(3)

	cache.Add("a", Entry{Text: "1"})
	cache.Add("b", Entry{Text: "2"})
	cache.Add("c", Entry{Text: "3"})
	cache.Get("a")
	cache.Add("d", Entry{Text: "4"})

	if _, ok := cache.Get("a"); ok {
		t.Error("Expected oldest entry to be evicted")
	}
	for _, k := range []string{"b", "c", "d"} {
		if _, ok := cache.Get(k); !ok {
			t.Errorf("Expected %q to be cached", k)
		}
	}
	if cache.Len() != 3 {
		t.Errorf("Expected 3 entries, got %d", cache.Len())
	}

	cache.Add("b", Entry{Text: "2b"})
	cache.Add("e", Entry{Text: "5"})
	if _, ok := cache.Get("b"); ok {
		t.Error("Overwriting must not move an entry to the back")
	}
}

func TestCache_DefaultCapacity(t *testing.T) {
	cache := NewCache(0)
	for i := 0; i < DefaultCacheCapacity+10; i++ {
		cache.Add(fmt.Sprintf("k%d", i), Entry{Text: "v"})
	}
	if cache.Len() != DefaultCacheCapacity {
		t.Errorf("Expected %d entries, got %d", DefaultCacheCapacity, cache.Len())
	}
	if _, ok := cache.Get("k0"); ok {
		t.Error("Expected k0 to be evicted")
	}
}

func TestCache_GetAllCopy(t *testing.T) {
	cache := NewCache(10)
	cache.Add("apple", Entry{Text: "사과"})

	all := cache.GetAll()
	all["apple"] = Entry{Text: "modified"}

	if v, _ := cache.Get("apple"); v.Text != "사과" {
		t.Error("Cache was modified through returned map")
	}
}

func TestCacheKey_Normalization(t *testing.T) {
	composed := "\uD55C"
	decomposed := "\u1112\u1161\u11AB"

	if CacheKey("deepl", language.English, composed) != CacheKey("deepl", language.English, " "+decomposed+" ") {
		t.Error("Expected composed and decomposed Hangul to share a key")
	}
	if CacheKey("deepl", language.English, "x") == CacheKey("google", language.English, "x") {
		t.Error("Expected service to be part of the key")
	}
}

func TestCachedTranslator(t *testing.T) {
	fake := &fakeTranslator{}
	ct := NewCachedTranslator(fake, NewCache(10))
	req := Request{Text: "hello", Target: language.Korean}

	first, err := ct.Translate(context.Background(), req)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	second, err := ct.Translate(context.Background(), req)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if fake.calls != 1 {
		t.Errorf("Expected 1 backend call, got %d", fake.calls)
	}
	if first.Cached || !second.Cached {
		t.Errorf("Unexpected cached flags: first=%v second=%v", first.Cached, second.Cached)
	}
	if second.Text != "T:hello" {
		t.Errorf("Expected cached text, got %q", second.Text)
	}
	if first.Source != language.English || second.Source != first.Source {
		t.Errorf("Expected detected source en on both calls, got first=%v second=%v", first.Source, second.Source)
	}

	fake.err = errors.New("down")
	if _, err := ct.Translate(context.Background(), Request{Text: "other", Target: language.Korean}); err == nil {
		t.Error("Expected backend error to propagate")
	}
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	fake := &fakeTranslator{err: &Error{Service: "fake", Message: "down"}}
	b := NewBreaker(fake, time.Minute, nil)
	req := Request{Text: "hello", Target: language.Korean}

	for i := 0; i < 5; i++ {
		if _, err := b.Translate(context.Background(), req); err == nil {
			t.Fatal("Expected failure")
		}
	}
	if fake.calls != 5 {
		t.Fatalf("Expected 5 calls, got %d", fake.calls)
	}

	_, err := b.Translate(context.Background(), req)
	var tErr *Error
	if !errors.As(err, &tErr) || !strings.Contains(tErr.Message, "unavailable") {
		t.Errorf("Expected open-circuit error, got %v", err)
	}
	if fake.calls != 5 {
		t.Errorf("Open circuit must not call the backend, got %d calls", fake.calls)
	}
}

func TestBreaker_IgnoresInputErrors(t *testing.T) {
	fake := &fakeTranslator{err: ErrMissingAPIKey}
	b := NewBreaker(fake, time.Minute, nil)

	for i := 0; i < 10; i++ {
		_, err := b.Translate(context.Background(), Request{Text: "x"})
		if !errors.Is(err, ErrMissingAPIKey) {
			t.Fatalf("Expected ErrMissingAPIKey, got %v", err)
		}
	}
	if fake.calls != 10 {
		t.Errorf("Expected every call to reach the backend, got %d", fake.calls)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr error
	}{
		{"default", Config{}, "google-free", nil},
		{"google free", Config{Service: "google-free"}, "google-free", nil},
		{"google", Config{Service: "google", APIKey: "k"}, "google", nil},
		{"deepl", Config{Service: "DeepL", APIKey: "k"}, "deepl", nil},
		{"openai", Config{Service: "openai", APIKey: "k"}, "openai", nil},
		{"deepl without key", Config{Service: "deepl"}, "", ErrMissingAPIKey},
		{"gemini without key", Config{Service: "gemini"}, "", ErrMissingAPIKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := New(context.Background(), tt.cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if tr.Name() != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, tr.Name())
			}
			if _, ok := tr.(*CachedTranslator); !ok {
				t.Errorf("Expected cached translator, got %T", tr)
			}
		})
	}

	if _, err := New(context.Background(), Config{Service: "babelfish"}); err == nil {
		t.Error("Expected error for unknown service")
	}

	tr, err := New(context.Background(), Config{CacheCapacity: -1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := tr.(*Breaker); !ok {
		t.Errorf("Expected uncached breaker, got %T", tr)
	}
}

func TestOpenAITranslator_NoAPIKey(t *testing.T) {
	_, err := NewOpenAITranslator("", "", "").Translate(context.Background(), Request{Text: "hello", Target: language.Korean})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Expected ErrMissingAPIKey, got %v", err)
	}
}

func TestOpenAITranslator_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	res, err := NewOpenAITranslator(apiKey, "", "").Translate(context.Background(), Request{Text: "apple", Target: language.Korean})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if res.Text == "" {
		t.Error("Got empty translation")
	}
	t.Logf("Translation of 'apple': %s", res.Text)
}

func TestGeminiTranslator_Integration(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: GEMINI_API_KEY not set")
	}

	tr, err := NewGeminiTranslator(context.Background(), apiKey, "")
	if err != nil {
		t.Fatalf("NewGeminiTranslator failed: %v", err)
	}
	res, err := tr.Translate(context.Background(), Request{Text: "apple", Target: language.Japanese})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	t.Logf("Translation of 'apple': %s", res.Text)
}
