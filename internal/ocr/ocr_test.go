package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"codeberg.org/snonux/vopet/internal/language"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestOCRSpace_FallsBackToEngineOne(t *testing.T) {
	var mu sync.Mutex
	var engines []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm failed: %v", err)
		}
		engine := r.FormValue("OCREngine")
		mu.Lock()
		engines = append(engines, engine)
		mu.Unlock()

		if r.FormValue("apikey") != DemoAPIKey {
			t.Errorf("Expected demo key, got %q", r.FormValue("apikey"))
		}
		if r.FormValue("language") != "jpn" {
			t.Errorf("Expected language jpn, got %q", r.FormValue("language"))
		}
		if !strings.HasPrefix(r.FormValue("base64Image"), "data:image/png;base64,") {
			t.Error("Expected PNG data URL")
		}
		if r.FormValue("isOverlayRequired") != "false" || r.FormValue("scale") != "true" || r.FormValue("detectOrientation") != "true" {
			t.Errorf("Unexpected flags %v", r.MultipartForm.Value)
		}

		if engine == "2" {
			fmt.Fprint(w, `{"ParsedResults":[{"ParsedText":"  \r\n"}],"OCRExitCode":1}`)
			return
		}
		fmt.Fprint(w, `{"ParsedResults":[{"ParsedText":" 日本語 \r\n"}],"OCRExitCode":1}`)
	}))
	defer server.Close()

	o := NewOCRSpace("", server.URL, nil)
	text, err := o.ExtractText(context.Background(), testPNG(t, 4, 4), language.Japanese)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if text != "日本語" {
		t.Errorf("Expected 日本語, got %q", text)
	}
	if strings.Join(engines, ",") != "2,1" {
		t.Errorf("Expected engines 2,1, got %v", engines)
	}
}

func TestOCRSpace_NoText(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"exit code", http.StatusOK, `{"ParsedResults":[{"ParsedText":"x"}],"OCRExitCode":3,"ErrorMessage":["Timed out"]}`},
		{"error string", http.StatusOK, `{"OCRExitCode":4,"ErrorMessage":"bad image"}`},
		{"empty", http.StatusOK, `{"ParsedResults":[],"OCRExitCode":1}`},
		{"http error", http.StatusForbidden, `forbidden`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			_, err := NewOCRSpace("key", server.URL, nil).ExtractText(context.Background(), testPNG(t, 2, 2), language.English)
			if !errors.Is(err, ErrNoText) {
				t.Errorf("Expected ErrNoText, got %v", err)
			}
			if calls != len(Engines) {
				t.Errorf("Expected %d calls, got %d", len(Engines), calls)
			}
		})
	}
}

func TestOCRSpace_EmptyImage(t *testing.T) {
	_, err := NewOCRSpace("", "http://unused", nil).ExtractText(context.Background(), nil, language.English)
	if !errors.Is(err, ErrNoText) {
		t.Errorf("Expected ErrNoText, got %v", err)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{``, ""},
		{`null`, ""},
		{`"oops"`, "oops"},
		{`["a","b"]`, "a; b"},
		{`42`, ""},
	}
	for _, tt := range tests {
		if got := errorMessage([]byte(tt.raw)); got != tt.want {
			t.Errorf("errorMessage(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

type fakeExtractor struct {
	calls int
	err   error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, image []byte, lang language.Language) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "text", nil
}

func TestBreaker(t *testing.T) {
	fake := &fakeExtractor{err: &Error{Engine: "2", Status: 500, Message: "down"}}
	b := NewBreaker(fake, time.Minute, nil)

	for i := 0; i < 3; i++ {
		if _, err := b.ExtractText(context.Background(), []byte{1}, language.English); err == nil {
			t.Fatal("Expected failure")
		}
	}
	_, err := b.ExtractText(context.Background(), []byte{1}, language.English)
	var oErr *Error
	if !errors.As(err, &oErr) || !strings.Contains(oErr.Message, "unavailable") {
		t.Errorf("Expected open-circuit error, got %v", err)
	}
	if fake.calls != 3 {
		t.Errorf("Expected 3 backend calls, got %d", fake.calls)
	}

	noText := &fakeExtractor{err: ErrNoText}
	b = NewBreaker(noText, time.Minute, nil)
	for i := 0; i < 5; i++ {
		b.ExtractText(context.Background(), []byte{1}, language.English)
	}
	if noText.calls != 5 {
		t.Errorf("ErrNoText must not open the circuit, got %d calls", noText.calls)
	}
}

func TestCrop(t *testing.T) {
	src := testPNG(t, 100, 50)

	out, err := Crop(src, Region{Left: 10, Top: 5, Width: 20, Height: 10}, image.Point{})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("Output is not PNG: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Errorf("Expected 20x10, got %v", img.Bounds())
	}
	r, g, _, _ := img.At(0, 0).RGBA()
	if r>>8 != 10 || g>>8 != 5 {
		t.Errorf("Expected pixel (10,5) at origin, got r=%d g=%d", r>>8, g>>8)
	}
}

func TestCrop_ScalesViewport(t *testing.T) {
	src := testPNG(t, 200, 100)

	out, err := Crop(src, Region{Left: 10, Top: 10, Width: 20, Height: 10}, image.Point{X: 100, Y: 50})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	img, _ := png.Decode(bytes.NewReader(out))
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
		t.Errorf("Expected 40x20, got %v", img.Bounds())
	}
	r, g, _, _ := img.At(0, 0).RGBA()
	if r>>8 != 20 || g>>8 != 20 {
		t.Errorf("Expected pixel (20,20) at origin, got r=%d g=%d", r>>8, g>>8)
	}
}

func TestCrop_Errors(t *testing.T) {
	src := testPNG(t, 10, 10)

	if _, err := Crop(src, Region{Left: 50, Top: 50, Width: 5, Height: 5}, image.Point{}); !errors.Is(err, ErrEmptyRegion) {
		t.Errorf("Expected ErrEmptyRegion outside the image, got %v", err)
	}
	if _, err := Crop(src, Region{Width: 0, Height: 5}, image.Point{}); !errors.Is(err, ErrEmptyRegion) {
		t.Errorf("Expected ErrEmptyRegion for zero width, got %v", err)
	}
	if _, err := Crop([]byte("not an image"), Region{Width: 1, Height: 1}, image.Point{}); err == nil {
		t.Error("Expected decode error")
	}

	out, err := Crop(src, Region{Left: 8, Top: 8, Width: 5, Height: 5}, image.Point{})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	img, _ := png.Decode(bytes.NewReader(out))
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Errorf("Expected region clipped to 2x2, got %v", img.Bounds())
	}
}
