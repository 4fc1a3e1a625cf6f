// Package ui provides the terminal hero banner for marquee.
//
// # Architecture Overview
//
// The banner is a Bubble Tea program. The carousel state machine owns every
// placement decision; this package only draws what it publishes. Renderer is
// the bridge: it implements carousel.Renderer and carousel.Committer and
// forwards each frame into the event loop with Program.Send.
//
// # Frames and Motion
//
//   - Initial frames snap the slides into their pre-transition placement.
//   - Final frames animate every slide from where it is drawn toward its
//     final placement over TransitionDuration, redrawn on tea.Tick.
//   - Settled frames (ready, no-op advances) snap to rest.
//
// Offsets map to column shifts (X axis) or row shifts (Y axis) of the slide
// card. Inactive slides are drawn faded underneath the active one.
//
// # Event Flow
//
//  1. Run() builds the Model, attaches the Renderer and starts OnStart
//  2. The carousel publishes frames, which arrive as frameMsg
//  3. Keys return commands; the carousel is never called from Update,
//     because Send blocks until Update has returned
//  4. Context cancellation or q shuts the program down
//
// # Key Bindings
//
//   - right/l/n: Next slide
//   - left/h/p: Previous slide
//   - 1-9: Jump to slide
//   - Space: Pause or resume autoplay
//   - m: Toggle sound (saved to prefs)
//   - T: Cycle theme (saved to prefs)
//   - ?: Toggle help
//   - q or Ctrl+C: Exit
package ui
