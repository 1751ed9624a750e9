package ledger

import (
	"fmt"
	"strings"
)

// MigrationPolicy decides which legacy rows get the pronunciation field.
type MigrationPolicy int

const (
	// MigratePerRow inserts the empty pronunciation field into every row
	// that has exactly three fields.
	MigratePerRow MigrationPolicy = iota

	// MigrateFirstRow inspects only the first data row. If it has three
	// fields every three-field row is migrated, otherwise none are. This is
	// how ledgers were migrated before per-row checks; mixed-shape ledgers
	// keep their three-field rows.
	MigrateFirstRow
)

// String returns the config name of the policy.
func (p MigrationPolicy) String() string {
	switch p {
	case MigratePerRow:
		return "per-row"
	case MigrateFirstRow:
		return "first-row"
	default:
		return fmt.Sprintf("MigrationPolicy(%d)", int(p))
	}
}

// ParseMigrationPolicy maps a config value to a policy. The empty string
// selects MigratePerRow.
func ParseMigrationPolicy(s string) (MigrationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "per-row":
		return MigratePerRow, nil
	case "first-row":
		return MigrateFirstRow, nil
	default:
		return 0, fmt.Errorf("unknown migration policy: %s", s)
	}
}

// emptyField is the quoted empty pronunciation inserted into legacy rows.
const emptyField = `""`

// MigrateRows upgrades three-field rows to four fields by inserting an empty
// quoted pronunciation at index 2. Rows are never dropped or reordered.
// Rows that still do not have four fields afterwards are returned as issues;
// their text is left as is. firstLine is the ledger line of data[0]; rows
// spanning several lines advance the count accordingly.
func MigrateRows(data []string, policy MigrationPolicy, firstLine int) ([]string, []RowIssue) {
	if len(data) == 0 {
		return data, nil
	}

	migrate := true
	if policy == MigrateFirstRow {
		migrate = len(SplitFields(data[0])) == 3
	}

	out := make([]string, len(data))
	var issues []RowIssue
	lineNo := firstLine
	for i, line := range data {
		fields := SplitFields(line)
		if migrate && len(fields) == 3 {
			fields = []string{fields[0], fields[1], emptyField, fields[2]}
			line = strings.Join(fields, ",")
		}
		if len(fields) != 4 {
			issues = append(issues, RowIssue{Line: lineNo, Fields: len(fields), Text: line})
		}
		out[i] = line
		lineNo += 1 + strings.Count(line, "\n")
	}
	return out, issues
}

// SplitFields splits one ledger row into its raw fields, quotes included.
// A field is either a double-quoted run (with "" as an escaped quote) or an
// unquoted run without commas. Empty fields are kept.
func SplitFields(line string) []string {
	var fields []string
	i := 0
	for {
		start := i
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i < len(line) && line[i] == '"' {
			i++
			for i < len(line) {
				if line[i] == '"' {
					if i+1 < len(line) && line[i+1] == '"' {
						i += 2
						continue
					}
					i++
					break
				}
				i++
			}
		}
		for i < len(line) && line[i] != ',' {
			i++
		}
		fields = append(fields, strings.TrimSpace(line[start:i]))
		if i >= len(line) {
			return fields
		}
		i++ // skip the comma
	}
}
