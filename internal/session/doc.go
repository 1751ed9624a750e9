// Package session ties the translator, the OCR client, the pronunciation
// lookup and the ledger store together. A Session is what the CLI and the
// local HTTP service operate on.
package session
