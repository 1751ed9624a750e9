package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed collection.sql
var collectionSchema string

// fieldSeparator joins note fields in the notes table.
const fieldSeparator = "\x1f"

const (
	frontTemplate = `<div class="term">{{Term}}</div>
{{#Pronunciation}}<div class="pronunciation">{{Pronunciation}}</div>{{/Pronunciation}}`
	backTemplate = `{{FrontSide}}
<hr id="answer">
<div class="meaning">{{Meaning}}</div>`
	reverseFrontTemplate = `<div class="meaning">{{Meaning}}</div>`
	reverseBackTemplate  = `{{FrontSide}}
<hr id="answer">
<div class="term">{{Term}}</div>
{{#Pronunciation}}<div class="pronunciation">{{Pronunciation}}</div>{{/Pronunciation}}`
	cardCSS = `.card { font-family: sans-serif; font-size: 22px; text-align: center; }
.term { font-size: 32px; font-weight: bold; }
.pronunciation { color: #7f8c8d; margin-top: 8px; }
.meaning { font-size: 28px; }`
)

type field struct {
	Name  string   `json:"name"`
	Ord   int      `json:"ord"`
	Font  string   `json:"font"`
	Size  int      `json:"size"`
	Media []string `json:"media"`
}

type template struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	Qfmt  string `json:"qfmt"`
	Afmt  string `json:"afmt"`
	Did   *int64 `json:"did"`
	Bqfmt string `json:"bqfmt"`
	Bafmt string `json:"bafmt"`
}

type noteType struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Type      int        `json:"type"`
	Mod       int64      `json:"mod"`
	Usn       int        `json:"usn"`
	Sortf     int        `json:"sortf"`
	Did       int64      `json:"did"`
	Req       [][]any    `json:"req"`
	Vers      []int      `json:"vers"`
	Tags      []string   `json:"tags"`
	Flds      []field    `json:"flds"`
	Tmpls     []template `json:"tmpls"`
	CSS       string     `json:"css"`
	LatexPre  string     `json:"latexPre"`
	LatexPost string     `json:"latexPost"`
}

type deck struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Mod              int64  `json:"mod"`
	Desc             string `json:"desc"`
	Collapsed        bool   `json:"collapsed"`
	Dyn              int    `json:"dyn"`
	Conf             int    `json:"conf"`
	Usn              int    `json:"usn"`
	NewToday         []int  `json:"newToday"`
	RevToday         []int  `json:"revToday"`
	LrnToday         []int  `json:"lrnToday"`
	TimeToday        []int  `json:"timeToday"`
	BrowserCollapsed bool   `json:"browserCollapsed"`
	ExtendNew        int    `json:"extendNew"`
	ExtendRev        int    `json:"extendRev"`
}

func newDeck(id int64, name, desc string, now int64) deck {
	return deck{
		ID: id, Name: name, Mod: now, Desc: desc, Conf: 1,
		NewToday: []int{0, 0}, RevToday: []int{0, 0}, LrnToday: []int{0, 0}, TimeToday: []int{0, 0},
		ExtendNew: 10, ExtendRev: 50,
	}
}

// GenerateAPKG writes the cards as an Anki package to outputPath.
func (g *Generator) GenerateAPKG(outputPath string) error {
	tempDir, err := os.MkdirTemp("", "vopet_apkg_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := g.writeCollection(dbPath, time.Now()); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	if err := zipPackage(outputPath, dbPath); err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}
	return nil
}

func (g *Generator) writeCollection(dbPath string, now time.Time) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(collectionSchema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	deckID := now.UnixMilli()
	modelID := deckID + 1
	if err := g.insertCollection(tx, deckID, modelID, now.Unix()); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}
	if err := g.insertNotes(tx, deckID, modelID, now); err != nil {
		return err
	}
	return tx.Commit()
}

func (g *Generator) insertCollection(tx *sql.Tx, deckID, modelID, now int64) error {
	fields := []field{
		{Name: "Term", Ord: 0, Font: "Arial", Size: 20, Media: []string{}},
		{Name: "Pronunciation", Ord: 1, Font: "Arial", Size: 16, Media: []string{}},
		{Name: "Meaning", Ord: 2, Font: "Arial", Size: 20, Media: []string{}},
	}
	model := noteType{
		ID:   modelID,
		Name: "vopet vocabulary (Basic + Reverse)",
		Mod:  now,
		Usn:  -1,
		Did:  deckID,
		Req:  [][]any{{0, "all", []int{0}}, {1, "all", []int{2}}},
		Vers: []int{},
		Tags: []string{},
		Flds: fields,
		Tmpls: []template{
			{Name: "Forward", Ord: 0, Qfmt: frontTemplate, Afmt: backTemplate},
			{Name: "Reverse", Ord: 1, Qfmt: reverseFrontTemplate, Afmt: reverseBackTemplate},
		},
		CSS:       cardCSS,
		LatexPre:  `\documentclass[12pt]{article}\begin{document}`,
		LatexPost: `\end{document}`,
	}

	decks := map[string]deck{"1": newDeck(1, "Default", "", now)}
	decks[strconv.FormatInt(deckID, 10)] = newDeck(deckID, g.options.DeckName, "Vocabulary collected with vopet", now)
	conf := map[string]any{
		"nextPos": 1, "estTimes": true, "activeDecks": []int64{1}, "sortType": "noteFld",
		"sortBackwards": false, "addToCur": true, "curDeck": 1, "newSpread": 0,
		"dueCounts": true, "collapseTime": 1200, "timeLim": 0, "schedVer": 1,
		"curModel": strconv.FormatInt(modelID, 10), "dayLearnFirst": false,
	}
	dconf := map[string]any{
		"1": map[string]any{
			"id": 1, "name": "Default", "dyn": 0, "timer": 0, "maxTaken": 60,
			"usn": 0, "mod": now, "autoplay": true, "replayq": true,
			"new":   map[string]any{"delays": []int{1, 10}, "ints": []int{1, 4, 7}, "initialFactor": 2500, "perDay": 20, "order": 1, "bury": true, "separate": true},
			"lapse": map[string]any{"delays": []int{10}, "mult": 0, "minInt": 1, "leechFails": 8, "leechAction": 0},
			"rev":   map[string]any{"perDay": 100, "ease4": 1.3, "fuzz": 0.05, "maxIvl": 36500, "ivlFct": 1, "bury": true, "minSpace": 1},
		},
	}

	blobs := make([]string, 0, 4)
	for _, v := range []any{conf, map[string]noteType{strconv.FormatInt(modelID, 10): model}, decks, dconf} {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		blobs = append(blobs, string(data))
	}

	_, err := tx.Exec(`INSERT INTO col VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		now, now*1000, now*1000, blobs[0], blobs[1], blobs[2], blobs[3])
	return err
}

func (g *Generator) insertNotes(tx *sql.Tx, deckID, modelID int64, now time.Time) error {
	base := now.UnixMilli()
	for i, card := range g.cards {
		noteID := base + int64(i*3)
		sum := sha1.Sum([]byte(card.Front + fieldSeparator + card.Back))
		guid := "vp" + hex.EncodeToString(sum[:5])

		flds := strings.Join([]string{card.Front, card.Pronunciation, card.Back}, fieldSeparator)
		tags := ""
		if len(card.Tags) > 0 {
			tags = " " + strings.Join(card.Tags, " ") + " "
		}

		_, err := tx.Exec(`INSERT INTO notes VALUES (?, ?, ?, ?, -1, ?, ?, ?, ?, 0, '')`,
			noteID, guid, modelID, now.Unix(), tags, flds, card.Front, checksum(card.Front))
		if err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}

		for ord := 0; ord < 2; ord++ {
			_, err := tx.Exec(`INSERT INTO cards VALUES (?, ?, ?, ?, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`,
				noteID+1+int64(ord), noteID, deckID, ord, now.Unix(), i*2+ord+1)
			if err != nil {
				return fmt.Errorf("failed to insert card: %w", err)
			}
		}
	}
	return nil
}

// checksum is Anki's duplicate check: the first 8 hex digits of the SHA-1
// of the sort field.
func checksum(s string) int64 {
	sum := sha1.Sum([]byte(s))
	v, _ := strconv.ParseInt(hex.EncodeToString(sum[:4]), 16, 64)
	return v
}

func zipPackage(outputPath, dbPath string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	archive := zip.NewWriter(out)

	w, err := archive.Create("collection.anki2")
	if err != nil {
		return err
	}
	db, err := os.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if _, err := io.Copy(w, db); err != nil {
		return err
	}

	// No media files.
	w, err = archive.Create("media")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, "{}"); err != nil {
		return err
	}

	if err := archive.Close(); err != nil {
		return err
	}
	return out.Close()
}
