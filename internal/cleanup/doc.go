// Package cleanup deletes the server-side artifact of the most recent
// analysis when the user leaves.
//
// The deletion is fire-and-forget: it is sent at most once per artifact, its
// outcome is never surfaced, and failures only reach the debug log. The
// coordinator also supplies the quit confirmation text shown while an
// analysis is on screen.
package cleanup
