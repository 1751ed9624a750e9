package ledger

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"blank", " \n\r\n ", nil},
		{"bom only", BOM, nil},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"blank lines", "a\n\n\nb", []string{"a", "b"}},
		{"quoted newline", "1,\"x\ny\",z\n2,a,b", []string{"1,\"x\ny\",z", "2,a,b"}},
		{"escaped quote", "1,\"say \"\"hi\"\"\",z\n2", []string{"1,\"say \"\"hi\"\"\",z", "2"}},
		{"mid-field quote", "1,ab\"c\n2", []string{"1,ab\"c", "2"}},
		{"unclosed quote", "1,\"x\n2,y", []string{"1,\"x", "2,y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDetectHeader(t *testing.T) {
	header, data, found := DetectHeader([]string{"순서,단어,뜻", "1,a,b"})
	if !found || header != "순서,단어,뜻" || len(data) != 1 {
		t.Errorf("Unexpected result: %q %q %v", header, data, found)
	}

	header, data, found = DetectHeader([]string{"1,a,b"})
	if found || header != DefaultHeader || len(data) != 1 {
		t.Errorf("Unexpected result: %q %q %v", header, data, found)
	}

	header, data, found = DetectHeader(nil)
	if found || header != DefaultHeader || data != nil {
		t.Errorf("Unexpected result for empty input: %q %q %v", header, data, found)
	}
}

func TestMigrateHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{LegacyHeader, DefaultHeader},
		{DefaultHeader, DefaultHeader},
		{"순서,단어,후리가나,뜻", "순서,단어,후리가나,뜻"},
		{"순서,단어", "순서,단어"},
		{"No,Word,Meaning", "No,Word,발음,Meaning"},
	}

	for _, tt := range tests {
		if got := MigrateHeader(tt.input); got != tt.want {
			t.Errorf("MigrateHeader(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{`1,"a","b"`, []string{"1", `"a"`, `"b"`}},
		{`1,"a,b","c"`, []string{"1", `"a,b"`, `"c"`}},
		{`1,"say ""x, y""",z`, []string{"1", `"say ""x, y"""`, "z"}},
		{`1,,b,`, []string{"1", "", "b", ""}},
		{`1, "a" ,b`, []string{"1", `"a"`, "b"}},
		{"x", []string{"x"}},
	}

	for _, tt := range tests {
		got := SplitFields(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitFields(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMigrateRows_Issues(t *testing.T) {
	data := []string{`1,"a","","b"`, `2,"c"`, `3,"d","e","f","g"`}

	out, issues := MigrateRows(data, MigratePerRow, 2)
	if !reflect.DeepEqual(out, data) {
		t.Errorf("Malformed rows should pass through unchanged, got %q", out)
	}
	if len(issues) != 2 {
		t.Fatalf("Expected 2 issues, got %d", len(issues))
	}
	if issues[0].Line != 3 || issues[0].Fields != 2 {
		t.Errorf("Unexpected first issue: %+v", issues[0])
	}
	if issues[1].Line != 4 || issues[1].Fields != 5 {
		t.Errorf("Unexpected second issue: %+v", issues[1])
	}

	var err error = issues[0]
	if !errors.Is(err, ErrMalformedRow) {
		t.Error("RowIssue should unwrap to ErrMalformedRow")
	}
}

func TestNextSequence(t *testing.T) {
	tests := []struct {
		name string
		data []string
		want int
	}{
		{"empty", nil, 1},
		{"single", []string{`1,"a","","b"`}, 2},
		{"unordered", []string{`3,a`, `10,b`, `2,c`}, 11},
		{"no numbers", []string{`a,b`, `"4",c`}, 1},
		{"leading zeros", []string{`007,a`}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextSequence(tt.data); got != tt.want {
				t.Errorf("NextSequence() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEscapeField(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"", ""},
		{"a,b", `"a,b"`},
		{`say "hi"`, `"say ""hi"""`},
		{"a\nb", "\"a\nb\""},
		{"a\rb", "\"a\rb\""},
	}

	for _, tt := range tests {
		if got := EscapeField(tt.input); got != tt.want {
			t.Errorf("EscapeField(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	if got := QuoteField("plain"); got != `"plain"` {
		t.Errorf("QuoteField should always quote, got %q", got)
	}
}

func TestParseMigrationPolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    MigrationPolicy
		wantErr bool
	}{
		{"", MigratePerRow, false},
		{"per-row", MigratePerRow, false},
		{"First-Row", MigrateFirstRow, false},
		{"sometimes", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseMigrationPolicy(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMigrationPolicy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMigrationPolicy(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseRecords_RoundTrip(t *testing.T) {
	w := NewWriter(MigratePerRow)
	inputs := []Record{
		{Term: "hello", Meaning: "안녕"},
		{Term: "a,b", Pronunciation: "ei, bi", Meaning: "x"},
		{Term: `"quoted"`, Meaning: `she said "no"`},
		{Term: "食べる", Pronunciation: "たべる", Meaning: "먹다\n(동사)"},
	}

	text := ""
	for _, rec := range inputs {
		text = w.Append(text, rec).Text
	}

	records, issues, err := ParseRecords(BOM + text)
	if err != nil {
		t.Fatalf("ParseRecords failed: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("Expected no issues, got %v", issues)
	}
	if len(records) != len(inputs) {
		t.Fatalf("Expected %d records, got %d", len(inputs), len(records))
	}
	for i, rec := range records {
		want := inputs[i]
		want.Sequence = i + 1
		if rec != want {
			t.Errorf("Record %d = %+v, want %+v", i, rec, want)
		}
	}
}

func TestParseRecords_Shapes(t *testing.T) {
	text := "순서,단어,뜻\n1,apple,사과\n2,a,b,c,d\nx,\"k\",\"\",\"m\"\n,,\n"

	records, issues, err := ParseRecords(text)
	if err != nil {
		t.Fatalf("ParseRecords failed: %v", err)
	}

	want := []Record{
		{Sequence: 1, Term: "apple", Meaning: "사과"},
		{Sequence: 0, Term: "k", Meaning: "m"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("Records = %+v, want %+v", records, want)
	}
	if len(issues) != 1 || issues[0].Line != 3 || issues[0].Fields != 5 {
		t.Errorf("Unexpected issues: %+v", issues)
	}
}

func TestParseRecords_Empty(t *testing.T) {
	records, issues, err := ParseRecords(BOM + "  \n")
	if err != nil || records != nil || issues != nil {
		t.Errorf("Expected nothing for blank ledger, got %v %v %v", records, issues, err)
	}
}
