// Package wordapi posts saved words to a remote vocabulary service.
package wordapi
