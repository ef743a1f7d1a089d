// Package ui hosts floating panels in a Bubble Tea program.
//
// Core pieces:
//   - AppModel: root model; owns the panel manager and routes input
//   - Tool: content of one panel (toolbox, console, database, inspector, exec)
//   - PointerFromMouse: turns mouse messages into panel pointer events
//   - overlayAt: composites panel frames back to front onto one screen
//   - FocusManager: rotates keyboard focus across panels
//   - Overlay: modal views with a dismiss key, drawn above every panel
//   - KeyHandler: SPC leader keybinds
package ui
