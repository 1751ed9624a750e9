// Package translation provides translators for Google Translate (keyless and
// Cloud), DeepL, OpenAI and Gemini, a bounded cache in front of them and a
// circuit breaker around them.
package translation
