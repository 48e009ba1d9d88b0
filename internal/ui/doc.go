// Package ui contains the Bubble Tea program that renders the console.
// The Model owns only presentation state; everything the operator can
// change lives in a session.Session and is reached through it.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages. Update routes
//     each tea.Msg through a typed handler registry so every message kind is
//     handled by a focused function.
//   - Key presses are interpreted according to the current Mode: browsing
//     the action list, editing the target, answering a confirmation, or
//     editing the panel layout.
//   - Session calls that reach the bridge never run on the event loop. They
//     are wrapped by internal/ui/command.Bus into tea.Cmd values and their
//     outcome comes back as a command.Result message.
//
// Backend interactions:
//   - A backend.Watcher polls the current user for the dashboard. Update
//     waits for those events and hands them to the data dispatcher, which
//     fills the dashboard store without touching the output sink.
package ui
