// Package models lists the OpenAI models usable as vopet translators and
// pronunciation providers.
package models
