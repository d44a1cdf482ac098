/*
Package ports defines the driven ports (interfaces) of the tri-state engine.

These interfaces decouple the propagation core from any concrete tree widget or
outline source, so the same engine can drive an in-memory tree, a terminal UI, or a
remote workspace.

# Key Interfaces

  - TreeNode: the abstract node the engine walks (children, parent, checked, state).
  - OutlineLoader: supplies outlines to be materialized into trees (memory, file, Loam).
  - Watchable: optional capability of loaders that can report changed outlines.
*/
package ports
