// Package http serves workspaces of tri-state trees over a JSON API.
//
// Routes are described by the embedded openapi.yaml and every request is validated
// against it before it reaches a handler. Mutations answer with the new snapshot and
// the diff against the previous one; the same diff is pushed to the workspace's
// server-sent event stream.
package http
