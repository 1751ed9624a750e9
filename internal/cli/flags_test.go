package cli

import (
	"reflect"
	"testing"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Service", flags.Service, "google-free"},
		{"Target", flags.Target, "ko"},
		{"Migration", flags.Migration, "per-row"},
		{"OCRLanguage", flags.OCRLanguage, "en"},
		{"ServerAddr", flags.ServerAddr, "127.0.0.1:8742"},
		{"ServerURL", flags.ServerURL, "http://127.0.0.1:8742"},
		{"DeckName", flags.DeckName, "vopet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	boolTests := []struct {
		name  string
		value bool
	}{
		{"Verbose", flags.Verbose},
		{"NoCache", flags.NoCache},
		{"DryRun", flags.DryRun},
		{"AnkiCSV", flags.AnkiCSV},
		{"NoWords", flags.NoWords},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value {
				t.Errorf("%s should default to false", tt.name)
			}
		})
	}

	if flags.Source != "" || flags.WordAPIURL != "" {
		t.Errorf("Source and WordAPIURL should default to empty")
	}
}
