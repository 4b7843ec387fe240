// Package task implements the durable task queue at the heart of the bot.
//
// Commands never perform privileged Discord operations inline. They enqueue a
// strongly-typed payload describing the desired effect; the Runner polls the
// database for pending records, routes each payload to its handler and
// persists the typed result. Callers that need the effect before continuing
// block on the per-record status through Queue.EnqueueAndWait, which keeps
// the rate-limited, failure-prone platform calls decoupled from interaction
// handling and gives at-least-once execution across process restarts.
package task
