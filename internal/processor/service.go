package processor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"codeberg.org/snonux/vopet/internal/api"
	"codeberg.org/snonux/vopet/internal/cli"
	"codeberg.org/snonux/vopet/internal/client"
	"codeberg.org/snonux/vopet/internal/language"
	"codeberg.org/snonux/vopet/internal/models"
	"codeberg.org/snonux/vopet/internal/server"
)

// Serve runs the local service for the browser extension until ctx is
// cancelled.
func (p *Processor) Serve(ctx context.Context) error {
	addr := setting(cli.KeyServerAddr, p.flags.ServerAddr)
	colorOK.Fprintf(p.out, "vopet service on http://%s\n", addr)
	return server.NewServer(p.session, p.logger).ListenAndServe(ctx, addr)
}

// Ping checks that a local service is reachable, retrying while it starts.
func Ping(ctx context.Context, flags *cli.Flags) error {
	url := setting(cli.KeyServerURL, flags.ServerURL)
	c := client.New(url)
	if err := c.EnsureServiceAvailable(ctx, client.DefaultMaxRetries, client.DefaultRetryDelay); err != nil {
		return err
	}
	colorOK.Printf("vopet service at %s is %s\n", url, api.StatusActive)
	return nil
}

// ListModels prints the OpenAI models usable for translation.
func ListModels(ctx context.Context) error {
	apiKey := cli.GetOpenAIKey()
	if apiKey == "" {
		return models.ErrNoAPIKey
	}
	m, err := models.NewLister(apiKey, viper.GetString("openai.base_url")).List(ctx)
	if err != nil {
		return err
	}
	m.Print(os.Stdout)
	return nil
}

// PapagoURL returns the link that opens text in the Papago web translator.
func PapagoURL(flags *cli.Flags, text string) (string, error) {
	source, err := language.Parse(setting(cli.KeySource, flags.Source))
	if err != nil {
		return "", fmt.Errorf("invalid source language: %w", err)
	}
	if source == language.Auto {
		source = language.Detect(text)
	}
	target, err := language.Parse(setting(cli.KeyTarget, flags.Target))
	if err != nil {
		return "", fmt.Errorf("invalid target language: %w", err)
	}
	return language.PapagoURL(strings.TrimSpace(text), source, target), nil
}
