package cli

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile string
	Verbose bool

	// Translation flags
	Service string
	Target  string
	Source  string
	Model   string
	NoCache bool

	// Ledger flags
	StorePath  string
	Migration  string
	ArchiveDir string

	// OCR flags
	OCRLanguage string

	// Service flags
	ServerAddr string
	ServerURL  string
	WordAPIURL string

	// Command flags
	Pronunciation string
	Example       string
	DryRun        bool
	AnkiCSV       bool
	DeckName      string
	OutputPath    string
	NoWords       bool
	Region        string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Service:     "google-free",
		Target:      "ko",
		Migration:   "per-row",
		OCRLanguage: "en",
		ServerAddr:  "127.0.0.1:8742",
		ServerURL:   "http://127.0.0.1:8742",
		DeckName:    "vopet",
	}
}
