// Package anki exports ledger records as Anki flashcards, either as a CSV
// file for Anki's text import or as a ready-to-import .apkg deck with a
// forward and a reverse card per word.
package anki
