// Package store declares the persistence interfaces and sentinel errors
// shared by the task queue, component payloads, and guild game state.
// Implementations live under internal/platform; consumers depend only on
// these interfaces so stores can be swapped for in-memory doubles in tests.
package store
