package processor

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"codeberg.org/snonux/vopet/internal/ocr"
	"codeberg.org/snonux/vopet/internal/session"
)

// maxPagePreview is the number of characters of a page printed.
const maxPagePreview = 600

// Capture reads the text in an image file, optionally limited to the
// region given by the --region flag, and translates it.
func (p *Processor) Capture(ctx context.Context, imagePath string) error {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	req := session.CaptureRequest{Image: data, Target: p.session.Target()}
	if p.flags.Region != "" {
		region, err := ParseRegion(p.flags.Region)
		if err != nil {
			return err
		}
		req.Region = &region
	}

	res, err := p.session.Capture(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.out, "%s\n\n", res.Text)
	colorTitle.Fprintf(p.out, "%s\n", res.Translation.Text)
	p.printWords(res.Words)
	return nil
}

// ParseRegion parses "left,top,width,height" in image pixels.
func ParseRegion(s string) (ocr.Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return ocr.Region{}, fmt.Errorf("invalid region %q: want left,top,width,height", s)
	}

	var v [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return ocr.Region{}, fmt.Errorf("invalid region %q: %q is not a non-negative number", s, part)
		}
		v[i] = n
	}
	return ocr.Region{Left: v[0], Top: v[1], Width: v[2], Height: v[3]}, nil
}

// ReadPage prints the readable text of a web page and the words of its
// title.
func (p *Processor) ReadPage(ctx context.Context, url string) error {
	page, err := p.session.ReadPage(ctx, url)
	if err != nil {
		return err
	}

	if page.Title != "" {
		colorTitle.Fprintf(p.out, "%s\n\n", page.Title)
	}
	text := []rune(strings.TrimSpace(page.Text))
	if len(text) > maxPagePreview {
		fmt.Fprintf(p.out, "%s...\n", string(text[:maxPagePreview]))
	} else {
		fmt.Fprintln(p.out, string(text))
	}

	if page.Title == "" || p.flags.NoWords {
		return nil
	}
	lookups, err := p.session.LookupWords(ctx, page.Title, p.session.Target())
	if err != nil {
		return err
	}
	p.printWords(lookups)
	return nil
}
