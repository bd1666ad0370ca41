/*
Package session serves many independent machines built from one definition.

A Machine is not safe for concurrent use, so the Manager serializes every operation on a
session behind a per-session mutex (and, optionally, a distributed lock), loads the session's
snapshot from a ports.SnapshotStore, applies exactly one engine operation, and saves the
result. Sessions that have never been seen start at the definition's initial state.
*/
package session
