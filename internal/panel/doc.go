// Package panel implements floating overlay panels: draggable, resizable,
// z-ordered windows with a header (title plus minimize, fullscreen and close
// controls) and a content body.
//
// A Manager owns every open panel, the rank bookkeeping that decides
// stacking order, and the single active drag. Hosts feed pointer input to
// Manager.HandlePointer (or call the Panel methods directly) and paint the
// panels returned by Manager.Ordered, back to front. Nothing in this package
// knows about terminals; internal/ui adapts Bubble Tea mouse messages to
// PointerEvent values and renders the chrome described by Panel.Chrome.
//
// Panels may be dragged partly or fully off-screen. Positions are never
// clamped to the viewport.
package panel
