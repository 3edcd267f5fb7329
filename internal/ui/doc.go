// Package ui contains the Bubble Tea program that hosts the navigator. The
// Model owns one nav.Navigator and the scene it was built from; every message
// that produces requests ends in exactly one navigator pass.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages. When the jump
//     prompt is open it receives key messages first; otherwise messages are
//     routed through a typed handler registry so each tea.Msg is handled by a
//     focused function.
//   - Key presses are mapped to nav requests by the key map in keys.go. Mouse
//     clicks are hit-tested against the scene geometry and become FocusOn.
//   - The events of a pass are written to the event log, traced, and Caught
//     events are turned into host actions (selecting a tmux pane, or showing
//     an info message for plain items).
//
// Backend interactions:
//   - A backend.Watcher streams new tmux layouts or re-read menu documents.
//     applyBackendEvent has data/dispatcher rebuild the scene, swaps in a
//     fresh navigator, then asks it to focus whatever was focused before when
//     that element still exists.
//   - Pane previews load asynchronously; a sequence number discards results
//     for a pane that is no longer focused.
package ui
