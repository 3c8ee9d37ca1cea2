/*
Package observability turns dispatch lifecycle events into Prometheus metrics.

Metrics.Hooks returns a domain.LifecycleHooks value that can be merged with any
other hooks (logging, auditing) and handed to the engine.
*/
package observability
