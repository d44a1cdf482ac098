package domain

import "errors"

// ErrNodeNotFound is returned when a node reference cannot be resolved in a tree.
var ErrNodeNotFound = errors.New("node not found")

// ErrWorkspaceNotFound is returned when a workspace ID is unknown to the registry.
var ErrWorkspaceNotFound = errors.New("workspace not found")

// ErrInvalidState is returned when a state name or index is not recognized.
var ErrInvalidState = errors.New("invalid state")

// ErrInvalidStyle is returned when a style name is not recognized.
var ErrInvalidStyle = errors.New("invalid style")

// ErrEmptyOutline is returned when an outline carries no nodes.
var ErrEmptyOutline = errors.New("empty outline")

// ErrDuplicateNodeID is returned when two nodes of one tree share an ID.
var ErrDuplicateNodeID = errors.New("duplicate node id")

// ErrOutlineNotFound is returned when a loader has no outline for the given ID.
var ErrOutlineNotFound = errors.New("outline not found")
