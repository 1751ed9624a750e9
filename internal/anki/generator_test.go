package anki

import (
	"archive/zip"
	"bytes"
	"database/sql"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/vopet/internal/ledger"
)

func testRecords() []ledger.Record {
	return []ledger.Record{
		{Sequence: 1, Term: "猫", Pronunciation: "ねこ", Meaning: "고양이"},
		{Sequence: 2, Term: "dog", Meaning: "개, 강아지"},
		{Sequence: 3, Term: "", Meaning: "broken row"},
	}
}

func TestNewGenerator(t *testing.T) {
	gen := NewGenerator(nil)
	if gen.options == nil || gen.options.OutputPath != "anki_import.csv" {
		t.Errorf("Expected default options, got %+v", gen.options)
	}

	gen = NewGenerator(&GeneratorOptions{OutputPath: "custom.csv"})
	if gen.options.OutputPath != "custom.csv" {
		t.Errorf("Expected custom output path, got %q", gen.options.OutputPath)
	}
}

func TestAddRecords(t *testing.T) {
	gen := NewGenerator(nil)

	if added := gen.AddRecords(testRecords()); added != 2 {
		t.Errorf("Expected 2 cards, got %d", added)
	}
	cards := gen.Cards()
	if cards[0].Front != "猫" || cards[0].Pronunciation != "ねこ" || cards[0].Back != "고양이" {
		t.Errorf("Unexpected card %+v", cards[0])
	}
	if len(cards[0].Tags) != 1 || cards[0].Tags[0] != "vopet" {
		t.Errorf("Expected default tag, got %v", cards[0].Tags)
	}

	total, withPronunciation := gen.Stats()
	if total != 2 || withPronunciation != 1 {
		t.Errorf("Stats() = %d, %d, want 2, 1", total, withPronunciation)
	}
}

func TestWriteCSV(t *testing.T) {
	gen := NewGenerator(nil)
	gen.AddRecords(testRecords())

	var buf bytes.Buffer
	if err := gen.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], "|") != "Front|Pronunciation|Back|Tags" {
		t.Errorf("Unexpected header %v", rows[0])
	}
	if rows[2][2] != "개, 강아지" {
		t.Errorf("Expected comma in meaning to survive, got %q", rows[2][2])
	}
}

func TestGenerateCSV_NoHeaders(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cards.csv")
	gen := NewGenerator(&GeneratorOptions{OutputPath: out})
	gen.AddCard(Card{Front: "hello", Back: "안녕"})

	if err := gen.GenerateCSV(); err != nil {
		t.Fatalf("GenerateCSV failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if string(data) != "hello,,안녕,\n" {
		t.Errorf("Unexpected CSV %q", string(data))
	}
}

func TestGenerateAPKG(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "deck.apkg")

	gen := NewGenerator(&GeneratorOptions{DeckName: "Korean", Tags: []string{"vopet", "test"}})
	gen.AddRecords(testRecords())
	if err := gen.GenerateAPKG(out); err != nil {
		t.Fatalf("GenerateAPKG failed: %v", err)
	}

	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("Failed to open package: %v", err)
	}
	defer zr.Close()

	names := map[string]*zip.File{}
	for _, f := range zr.File {
		names[f.Name] = f
	}
	if names["media"] == nil || names["collection.anki2"] == nil {
		t.Fatalf("Expected collection.anki2 and media, got %v", names)
	}

	dbPath := filepath.Join(dir, "collection.anki2")
	rc, err := names["collection.anki2"].Open()
	if err != nil {
		t.Fatalf("Failed to open collection: %v", err)
	}
	f, err := os.Create(dbPath)
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	if _, err := io.Copy(f, rc); err != nil {
		t.Fatalf("Failed to extract collection: %v", err)
	}
	rc.Close()
	f.Close()

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var notes, cards int
	if err := db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&notes); err != nil {
		t.Fatalf("count notes: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&cards); err != nil {
		t.Fatalf("count cards: %v", err)
	}
	if notes != 2 || cards != 4 {
		t.Errorf("Expected 2 notes and 4 cards, got %d and %d", notes, cards)
	}

	var flds, tags string
	if err := db.QueryRow(`SELECT flds, tags FROM notes WHERE sfld = ?`, "猫").Scan(&flds, &tags); err != nil {
		t.Fatalf("query note: %v", err)
	}
	if flds != "猫\x1fねこ\x1f고양이" {
		t.Errorf("Unexpected fields %q", flds)
	}
	if tags != " vopet test " {
		t.Errorf("Unexpected tags %q", tags)
	}

	var decks string
	if err := db.QueryRow(`SELECT decks FROM col`).Scan(&decks); err != nil {
		t.Fatalf("query col: %v", err)
	}
	if !strings.Contains(decks, `"name":"Korean"`) {
		t.Errorf("Expected deck name in collection, got %s", decks)
	}
}

func TestChecksum(t *testing.T) {
	if checksum("猫") != checksum("猫") {
		t.Error("Expected stable checksum")
	}
	if checksum("猫") == checksum("犬") {
		t.Error("Expected different checksums")
	}
}
