/*
Package domain contains the core types of the tri-state checkbox engine.

It defines the three-valued check state carried by every tree node, the style that
governs how parents react to uniform children, the serializable outline handed over
by tree-population collaborators, and the snapshots and diffs the adapters expose.
This package is kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - State: Uninitialized, Unchecked, Checked or Mixed (mirrors a glyph index).
  - Style: Standard or Installer propagation semantics.
  - Outline: a plain description of a tree before it is materialized.
  - Snapshot: the observable outputs (state and checked flag) of every node at an instant.
  - LifecycleHooks: callbacks fired by the engine for observability.
*/
package domain
