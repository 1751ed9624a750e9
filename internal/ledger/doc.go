// Package ledger maintains the vocabulary ledger, a CSV text blob with one
// header line and one row per saved word (sequence, term, pronunciation,
// meaning). It parses and normalizes stored ledgers, migrates legacy
// three-column files to the current four-column layout, allocates row
// numbers and appends new rows. The package performs no I/O.
package ledger
