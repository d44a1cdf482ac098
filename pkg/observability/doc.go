/*
Package observability turns the engine's lifecycle hooks into Prometheus metrics and
structured log records.

The engine itself never imports Prometheus: it only calls domain.LifecycleHooks.
Metrics.Hooks and LogHooks build those hooks, and Chain combines them.
*/
package observability
