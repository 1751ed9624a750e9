// Package language identifies the languages vopet works with and maps them
// to the codes each translation and OCR backend expects.
package language
