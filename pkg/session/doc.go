/*
Package session serializes access to persisted session frames.

A Manager wraps a ports.FrameStore with per-session locks, reference
counted so that idle sessions hold no memory, and an optional
ports.DistributedLocker for replicas sharing one store. Saves never replace
a stored frame with an older revision.
*/
package session
