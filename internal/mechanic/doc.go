// Package mechanic implements the multi-step game workflows built on top of
// the task queue. Each mechanic is a sequential script of blocking
// EnqueueAndWait calls: team creation, for example, creates a role, a
// category, the team channels and a welcome message in order, feeding each
// step's typed result into the next. Mechanics consume the queue; they are
// not part of its contract.
package mechanic
