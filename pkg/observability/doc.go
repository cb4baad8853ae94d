/*
Package observability turns engine lifecycle hooks into Prometheus metrics.

Metrics.Hooks returns a domain.LifecycleHooks value that can be merged with
user hooks and handed to the engine.
*/
package observability
