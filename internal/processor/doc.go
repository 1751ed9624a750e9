// Package processor runs the vopet command-line workflows. It builds a
// session from the configuration and drives translation, the CSV ledger,
// text capture, batch imports, Anki export and the local service.
package processor
