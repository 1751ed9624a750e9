// Package api defines the JSON messages exchanged between the vopet
// service and its clients. Every response carries a success flag and, on
// failure, an error message, so callers can treat all endpoints alike.
package api
