// Package ui provides the terminal user interface for the application.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program: a single Model holds all view state,
// Update folds messages into it, and View renders the active screen. All
// blocking work (uploads, sample analysis, opening the player, tailing the
// log) runs in tea.Cmd goroutines that report back as messages, so the
// event loop never stalls.
//
// # Package Structure
//
//   - app.go: Root model, message/command plumbing, and the Run function
//   - keys.go: Keyboard bindings
//   - header.go: Status bar, command bar, and notification strip
//   - upload.go: File picker and server sample catalog
//   - progress.go: Upload progress view
//   - results.go: Analysis summary, alert level, and detection timeline
//   - player.go: Playback controls for the annotated footage
//   - logview.go: Client log tail, help overlay, and quit confirmation
//   - theme.go / style_helpers.go: Color themes and lipgloss helpers
//
// # Views
//
//   - Upload: Path input plus the server's sample videos
//   - Progress: Live upload percentage from the transport client
//   - Results: Vehicle counts, alert level, and per-frame detections
//   - Player: Transport controls; the footage renders in an mpv window
//   - Log: Tail of the client's own log file
//
// # Upload Event Flow
//
// Starting an analysis spawns the session on its own goroutine with an
// observer that pushes progress events and the terminal outcome into a
// channel; listenSessionCmd turns each channel receive into a message. The
// terminal outcome switches the view: results on success, back to upload
// with a notification on warming or failure.
//
// # Quit Handling
//
// While an analysis is on screen its server-side artifact would be lost on
// exit, so quitting first shows a confirmation modal. Confirming fires the
// cleanup coordinator's fire-and-forget deletion before the program stops.
package ui
