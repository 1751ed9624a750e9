// Package ocr extracts text from screen captures. It crops the selected
// region of a screenshot and sends it to the OCR.space API.
package ocr
