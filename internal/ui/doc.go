// Package ui contains the Bubble Tea program that collects code and shows its
// explanation. The Model type focuses on message orchestration, while
// dedicated helpers own input routing, commands, and rendering.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function (key presses, resizes, spinner ticks, finished requests).
//   - Key presses that are not bound to an action go to the focused pane: the
//     code textarea or the explanation viewport (internal/ui/input.go).
//
// State ownership:
//   - The session state (input, result, busy flag, error) lives in an
//     explain.Controller. The model only mutates it from Update, so the
//     controller never needs locking.
//   - The textarea mirrors its value into the controller after every edit.
//
// Requests:
//   - An explain key press calls Controller.Begin, then hands the request to
//     the internal/ui/command bus. The bus runs Controller.Run off the update
//     goroutine and delivers explainDoneMsg, whose handler calls
//     Controller.Finish. Completions for a request that was cleared in the
//     meantime are dropped by the controller.
package ui
