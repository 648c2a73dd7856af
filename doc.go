/*
Package motion is a CSS animation runtime: it decides which classes and
inline styles an element carries while it enters, stays, leaves and is
replaced, and when each transition has finished.

The building blocks live in sub-packages:

  - pkg/spec: timing of one transition (duration, delay, timing function).
  - pkg/transition: enter and exit transitions (fade, slide, expand) and
    their combinations.
  - pkg/visibility: the Hidden → Showing → Shown → Hiding machine of one
    element.
  - pkg/content: a tracker keeping the current state and the states still
    animating out, each with its own visibility machine.
  - pkg/sizing: a container animating its size to its measured content.

# Engine

Engine hosts named sessions of visibility machines or content trackers on
a single event loop and persists the frame rendered after every change.
Timers and HTTP or MCP requests all go through the loop, so the machines
need no locks.

	engine := motion.New(motion.WithStore(memory.NewStore()))
	go engine.Run(ctx)

	frame, err := engine.OpenVisibility(ctx, "banner", ports.VisibilityRequest{
		Visible: true,
		Enter:   "fade-in",
		Exit:    "slide-out-vertically",
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(frame.Markup)

	// Starts the exit transition; the frame is updated again when it ends.
	frame, err = engine.SetVisible(ctx, "banner", false, "", "")

Transition names refer to the library given with WithLibrary (see
pkg/config); the built-in presets are always available.
*/
package motion
