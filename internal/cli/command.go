package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/vopet/internal"
	"codeberg.org/snonux/vopet/internal/translation"
)

// Viper keys.
const (
	KeyService       = "translator.service"
	KeyAPIKey        = "translator.api_key"
	KeyTarget        = "translator.target"
	KeySource        = "translator.source"
	KeyModel         = "translator.model"
	KeyOCRLanguage   = "ocr.language"
	KeyOCRAPIKey     = "ocr.api_key"
	KeyOCREndpoint   = "ocr.endpoint"
	KeyCacheCapacity = "cache.capacity"
	KeyStorePath     = "store.path"
	KeyMigration     = "ledger.migration"
	KeyArchiveDir    = "ledger.archive_dir"
	KeyServerAddr    = "server.addr"
	KeyServerURL     = "server.url"
	KeyWordAPIURL    = "wordapi.url"
	KeyOpenAIKey     = "openai.api_key"
)

// serviceKeyEnv names the environment variable holding each service key.
var serviceKeyEnv = map[string]string{
	translation.ServiceGoogle: "GOOGLE_API_KEY",
	translation.ServiceDeepL:  "DEEPL_API_KEY",
	translation.ServiceOpenAI: "OPENAI_API_KEY",
	translation.ServiceGemini: "GEMINI_API_KEY",
}

// StateDir returns the directory holding the store and archives.
func StateDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "vopet")
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vopet",
		Short: "Vocabulary Pet: translate, collect and review words",
		Long: `vopet translates words and phrases, reads text out of screenshots
and collects the words you want to learn in a CSV ledger that opens in
any spreadsheet tool.

Examples:
  vopet translate "猫が好きです"           # Translate into the target language
  vopet connect ~/words.csv               # Use a CSV file as ledger
  vopet save 猫 고양이 --pronunciation ねこ  # Append a word to the ledger
  vopet serve                             # Run the local service for the browser`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	stateDir := StateDir()

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.vopet.yaml)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")

	pf.StringVarP(&flags.Service, "service", "s", flags.Service, "Translator: "+strings.Join(translation.Services, ", "))
	pf.StringVarP(&flags.Target, "target", "t", flags.Target, "Target language: ko, en, ja, zh")
	pf.StringVar(&flags.Source, "source", "", "Source language (default: detect)")
	pf.StringVar(&flags.Model, "model", "", "Model for the openai and gemini translators")
	pf.BoolVar(&flags.NoCache, "no-cache", false, "Disable the translation cache")

	pf.StringVar(&flags.StorePath, "store", filepath.Join(stateDir, "vopet.db"), "State database path")
	pf.StringVar(&flags.Migration, "migration", flags.Migration, "Legacy row migration: per-row or first-row")
	pf.StringVar(&flags.ArchiveDir, "archive-dir", filepath.Join(stateDir, "archive"), "Where disconnect archives the ledger (empty to skip)")

	pf.StringVar(&flags.OCRLanguage, "ocr-language", flags.OCRLanguage, "Language of text in screenshots")

	pf.StringVar(&flags.ServerAddr, "addr", flags.ServerAddr, "Listen address of the local service")
	pf.StringVar(&flags.ServerURL, "server-url", flags.ServerURL, "URL of the local service")
	pf.StringVar(&flags.WordAPIURL, "word-api", "", "URL of a remote word service to copy saved words to")

	bindFlagsToViper(pf)
}

func bindFlagsToViper(fs *pflag.FlagSet) {
	bindings := map[string]string{
		KeyService:     "service",
		KeyTarget:      "target",
		KeySource:      "source",
		KeyModel:       "model",
		KeyStorePath:   "store",
		KeyMigration:   "migration",
		KeyArchiveDir:  "archive-dir",
		KeyOCRLanguage: "ocr-language",
		KeyServerAddr:  "addr",
		KeyServerURL:   "server-url",
		KeyWordAPIURL:  "word-api",
	}
	for key, name := range bindings {
		if f := fs.Lookup(name); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".vopet" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vopet")
	}

	viper.SetDefault(KeyCacheCapacity, translation.DefaultCacheCapacity)

	// Environment variables, e.g. VOPET_TRANSLATOR_SERVICE
	viper.SetEnvPrefix("VOPET")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetAPIKey retrieves the key of a translator service from the
// environment or the config.
func GetAPIKey(service string) string {
	if env, ok := serviceKeyEnv[service]; ok {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString(KeyAPIKey)
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	if key := viper.GetString(KeyOpenAIKey); key != "" {
		return key
	}
	if viper.GetString(KeyService) == translation.ServiceOpenAI {
		return viper.GetString(KeyAPIKey)
	}
	return ""
}

// GetOCRKey retrieves the OCR.space API key from environment or config.
func GetOCRKey() string {
	if key := os.Getenv("OCR_SPACE_API_KEY"); key != "" {
		return key
	}
	return viper.GetString(KeyOCRAPIKey)
}

// NewLogger returns the structured logger used by all components.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
