// Package tui holds the terminal renderings used by the CLI: banner, markdown
// summary and node table.
package tui
