/*
Package domain contains the core types shared by the motion engine.

It defines the visibility states an animated element moves through, the
frames the engine emits for the host to render, the CSS value objects used by
transitions, and the sentinel errors returned across packages. The package is
kept pure and free of I/O, following the same hexagonal split as the rest of
the module.

# Key Entities

  - VisibilityState: Hidden, Showing, Shown or Hiding.
  - Frame: the class/style snapshot of a rendered element tree.
  - Length, Percentage, LengthPercentage: validated CSS values.
  - Hooks: callbacks for observing state changes across machines.
*/
package domain
