// Package words picks the individual words worth looking up from a
// selected phrase.
package words
