// Package batch reads word lists and saves them to the ledger in one go.
//
// A batch file has one entry per line:
//
//	term               translate the term
//	term = meaning     save as given
//	= meaning          translate the meaning back into the term language
//
// Blank lines and lines starting with '#' are skipped.
package batch
