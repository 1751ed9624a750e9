// Package client talks to a running vopet service. Besides typed calls for
// each endpoint it can wait for the service to come up, polling /ping a
// fixed number of times.
package client
