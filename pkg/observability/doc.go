/*
Package observability turns engine hooks into Prometheus metrics and
structured log lines.

Metrics.Hooks and LogHooks return domain.Hooks; combine them with
domain.Hooks.Merge and pass the result to the engine.
*/
package observability
