// Package playback controls a media handle for reviewing processed footage.
//
// Controller holds the play and mute flags the UI renders and forwards
// commands to a Media handle. Commands issued before a handle is attached
// are silent no-ops, so the transport controls can render unconditionally.
// OpenMPV provides the real handle by driving an mpv process over its JSON
// IPC socket; mpv owns the render window while the TUI owns the controls.
package playback
