// Package mcp exposes workspaces of tri-state trees to Model Context Protocol
// clients, over stdio or SSE.
package mcp
