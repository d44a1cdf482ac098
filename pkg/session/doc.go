/*
Package session implements the workspace registry used by the server adapters.

A workspace is a live tree plus its own engine. Operations on one workspace are
serialized by a reference-counted per-workspace mutex, which keeps the engine's
single-threaded contract under concurrent requests; different workspaces proceed in
parallel.
*/
package session
