// Package memory provides the in-memory tree the engine runs over, plus an
// in-memory outline loader. It is the default host collaborator for the CLI and the
// server adapters, and the fixture of choice in tests.
package memory
