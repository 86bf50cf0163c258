// Package app provides the orchestration layer for the application.
//
// # Overview
//
// This package is the composition root: it wires configuration, logging,
// the detector client, the shared state store, the upload session, playback,
// artifact cleanup, and the TUI together, then blocks in ui.Run until the
// user quits.
//
// # Initialization Order
//
//  1. Load client configuration from ~/.config/roadwatch/config.toml
//  2. Open the file logger under the configured log directory
//  3. Load user preferences (theme)
//  4. Initialize the detector HTTP client
//  5. Create the shared state.Store and run one synchronous refresh so the
//     first frame already shows service health
//  6. Launch the background health poller
//  7. Build the session, playback controller, and cleanup coordinator
//  8. Start the TUI and block until exit
//
// # Polling Behavior
//
// The poller refreshes health and the sample catalog on a fixed cadence
// (default: 5 seconds) and backs off exponentially, capped at 30 seconds,
// while the service is unreachable. Poll failures are recoverable: they are
// recorded in the store for the header to display and polling continues.
//
// Fatal errors returned from Run are limited to startup problems: unreadable
// configuration, an unwritable log directory, or an unparseable server URL.
//
// # Shutdown
//
// When ui.Run returns, the deferred cleanup coordinator teardown fires the
// artifact deletion for the most recent analysis and waits briefly for it,
// then the log file is closed.
package app
