package api

import "time"

// Endpoint paths of the local service.
const (
	PathPing       = "/ping"
	PathTranslate  = "/translate"
	PathWords      = "/words"
	PathSave       = "/save"
	PathRecords    = "/records"
	PathOCR        = "/ocr"
	PathPage       = "/page"
	PathLedger     = "/ledger"
	PathConnect    = "/ledger/connect"
	PathDisconnect = "/ledger/disconnect"
)

// StatusActive is the ping answer of a running service.
const StatusActive = "active"

// PingResponse answers GET /ping.
type PingResponse struct {
	Status string `json:"status"`
}

// Response is the envelope shared by all other responses.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// TranslateRequest asks for a translation. Empty languages fall back to
// detection for the source and the configured target.
type TranslateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage,omitempty"`
	SourceLanguage string `json:"sourceLanguage,omitempty"`
}

// TranslateResponse carries a translation.
type TranslateResponse struct {
	Response
	Translation    string `json:"translation,omitempty"`
	SourceLanguage string `json:"sourceLanguage,omitempty"`
	Service        string `json:"service,omitempty"`
	SameLanguage   bool   `json:"sameLanguage,omitempty"`
	Cached         bool   `json:"cached,omitempty"`
}

// WordsRequest asks for the word-by-word translation of a phrase.
type WordsRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage,omitempty"`
}

// Word is the translation of a single word.
type Word struct {
	Word          string `json:"word"`
	Meaning       string `json:"meaning,omitempty"`
	Pronunciation string `json:"pronunciation,omitempty"`
	Error         string `json:"error,omitempty"`
}

// WordsResponse lists word translations.
type WordsResponse struct {
	Response
	Words []Word `json:"words,omitempty"`
}

// SaveRequest appends a word to the ledger.
type SaveRequest struct {
	Word          string `json:"word"`
	Pronunciation string `json:"pronunciation,omitempty"`
	Meaning       string `json:"meaning"`
	Example       string `json:"example,omitempty"`
}

// SaveResponse describes the appended row.
type SaveResponse struct {
	Response
	Sequence    int    `json:"sequence,omitempty"`
	FileName    string `json:"fileName,omitempty"`
	HeaderAdded bool   `json:"headerAdded,omitempty"`
	Malformed   int    `json:"malformedRows,omitempty"`
	FileError   string `json:"fileError,omitempty"` // word stored, ledger file not updated
}

// Record is one ledger row.
type Record struct {
	Sequence      int    `json:"sequence"`
	Word          string `json:"word"`
	Pronunciation string `json:"pronunciation"`
	Meaning       string `json:"meaning"`
}

// RecordsResponse lists the ledger rows.
type RecordsResponse struct {
	Response
	Records   []Record `json:"records"`
	Malformed int      `json:"malformedRows,omitempty"`
}

// Region is a selection in viewport coordinates.
type Region struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// OCRRequest carries a screenshot as base64 or data URL.
type OCRRequest struct {
	Image          string  `json:"image"`
	Region         *Region `json:"region,omitempty"`
	ViewportWidth  int     `json:"viewportWidth,omitempty"`
	ViewportHeight int     `json:"viewportHeight,omitempty"`
	Language       string  `json:"language,omitempty"`
	TargetLanguage string  `json:"targetLanguage,omitempty"`
}

// OCRResponse carries the recognized and translated text.
type OCRResponse struct {
	Response
	Text        string `json:"text,omitempty"`
	Translation string `json:"translation,omitempty"`
	Words       []Word `json:"words,omitempty"`
}

// PageRequest asks for the readable text of a web page.
type PageRequest struct {
	URL string `json:"url"`
}

// PageResponse carries the page text.
type PageResponse struct {
	Response
	Title string `json:"title,omitempty"`
	Text  string `json:"text,omitempty"`
}

// ConnectRequest connects the CSV file at Path as the ledger.
type ConnectRequest struct {
	Path string `json:"path"`
}

// LedgerResponse describes the connected ledger.
type LedgerResponse struct {
	Response
	Connected    bool      `json:"connected"`
	FileName     string    `json:"fileName,omitempty"`
	Path         string    `json:"path,omitempty"`
	LastModified time.Time `json:"lastModified,omitzero"`
	Archive      string    `json:"archive,omitempty"`
}

// Fail builds a failed response envelope.
func Fail(err error) Response {
	return Response{Success: false, Error: err.Error()}
}

// OK is the envelope of a successful response.
var OK = Response{Success: true}
