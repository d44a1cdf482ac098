// Package tea adapts the propagation engine to Bubble Tea programs.
//
// Controller is the interaction adapter: the space key toggles the selected node and a
// left click on a node's state glyph toggles that node. Glyph drawing and navigation
// belong to the host; Model is a small reference host used by the CLI's browse command.
package tea
