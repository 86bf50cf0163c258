// Package logtail reads the tail of the client's own log file for the
// in-app log view.
//
// Read uses a ring buffer of size maxLines, so memory is O(maxLines)
// regardless of file size and lines come back in chronological order.
// Missing files are not an error; the view simply shows nothing until the
// first line is written.
//
// The package is intentionally small: no file watching (the UI re-reads on
// a tick), no rotation handling, no filtering. Rendering and styling belong
// to the UI layer.
package logtail
