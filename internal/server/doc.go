// Package server exposes a session over a local HTTP JSON API. It plays
// the part of a browser extension's background worker: pages send their
// translate, save and OCR requests here and the server forwards them to
// the translation backends and the ledger.
package server
