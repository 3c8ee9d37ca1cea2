/*
Package domain contains the shared vocabulary of the onclick dispatch engine.

It defines object identifiers, the interaction states reported by the host, the
exclusivity tag used to order the click dispatch pass, slot kinds, lifecycle hook
events and the sentinel errors returned across packages. This package is kept pure
and free of I/O, so every other package can depend on it.

# Key Entities

  - ObjectID: Opaque, stable identifier of an interactive object in a world.
  - Interaction: Per-object input state (None, Hovered, Pressed), edge-triggered.
  - ClickHandlerSet: The ordering group the dispatch pass runs in.
  - LifecycleHooks: Optional callbacks fired around dispatch passes and slot runs.
*/
package domain
