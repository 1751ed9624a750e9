// Package store keeps the connected ledger: its file name, its content and
// the path of the CSV file it mirrors. State lives in a small SQLite
// key-value table with a revision counter so concurrent saves cannot lose
// rows.
package store
