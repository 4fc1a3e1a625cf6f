// Package app wires marquee's components together and runs the banner.
//
// Run is the composition root:
//
//	app.Run()
//	  ├─> config.Load()             settings and overrides
//	  ├─> prefs.Load()              theme and mute preference
//	  ├─> LoadCatalog()             file or built-in slides
//	  ├─> BuildHandles()            one player per slide
//	  ├─> media.NewSynchronizer()   pause/seek/play fan-out
//	  ├─> carousel.New()            transition state machine
//	  ├─> autoplay.New()            rotation cadence
//	  └─> ui.Run() or headless loop (blocks)
//
// The carousel starts inert. Media is probed first, then the carousel is
// marked ready and autoplay begins ticking. In the terminal the probe runs
// after the first paint so the banner appears immediately.
//
// # Headless
//
// When stdout is not a terminal, or Options.Headless is set, frames go to a
// LogRenderer and every slide uses a no-op media handle. This mode is what
// the integration tests drive and is useful for checking a catalog's rotation
// without a display.
//
// # Errors
//
// Only configuration, logging and catalog failures abort Run. Missing media,
// an absent probe tool and rejected playback are logged and the rotation
// continues.
package app
