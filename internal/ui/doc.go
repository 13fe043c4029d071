// Package ui contains the Bubble Tea program that hosts owner-drawn popup
// menus in a terminal. The terminal plays the part of the player window; a
// right click (or the open key) pops up one of the catalog menus at the
// pointer.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a
//     focused function.
//   - While a popup is open, mouse, key, focus and timer messages are
//     translated into menu events and fed to the active popup.Run. The
//     session answers with actions that land on the Model through its
//     popup.Host methods (host.go); scheduled timers become tea.Tick
//     commands that come back as timerMsg.
//   - When the session ends the Model folds the selection into the player
//     settings and hands any dismissing press back to the player surface.
//
// Rendering:
//   - View paints the player surface and every visible menu into a
//     render/cells canvas and appends a Lip Gloss status line styled by the
//     theme resource the menus share.
package ui
