// Package session drives one upload attempt through its full lifecycle:
// validation, transmission, and normalization of the server's reply into a
// terminal outcome.
//
// The lifecycle is a small state machine
// (idle -> validating -> uploading -> finalizing) ending in one of three
// terminal states: succeeded, warming, or failed. A Session accepts one
// attempt at a time; Start returns ErrUploadInFlight while a previous attempt
// is still running, and every other resolution is reported to the Observer as
// exactly one outcome after all progress events.
package session
