package task

import (
	"fmt"

	"github.com/skirmish-bot/skirmish/internal/domain"
)

// State is the execution state of a task record. Pending is the only
// non-terminal state; the transition away from it happens exactly once.
type State string

// Possible task states.
const (
	StatePending   State = "pending"
	StateCompleted State = "completed"
	StateError     State = "error"
)

// ResultKind discriminates the typed outputs a handler can produce.
type ResultKind string

// Possible result kinds.
const (
	ResultNone     ResultKind = "none"
	ResultCategory ResultKind = "category"
	ResultChannel  ResultKind = "channel"
	ResultRole     ResultKind = "role"
	ResultMessage  ResultKind = "message"
)

// Result is the typed output of a completed task. Exactly the field matching
// Kind is populated, so a blocked caller can retrieve structured output (the
// database row of a just-created channel, say) rather than a bare success
// flag.
type Result struct {
	Kind      ResultKind        `json:"kind"`
	Category  *domain.Category  `json:"category,omitempty"`
	Channel   *domain.Channel   `json:"channel,omitempty"`
	Role      *domain.Role      `json:"role,omitempty"`
	MessageID domain.PlatformID `json:"message_id,omitempty"`
}

// NoneResult is the result of an effect with no data to return.
func NoneResult() Result {
	return Result{Kind: ResultNone}
}

// CategoryResult wraps a freshly persisted category row.
func CategoryResult(c domain.Category) Result {
	return Result{Kind: ResultCategory, Category: &c}
}

// ChannelResult wraps a freshly persisted channel row.
func ChannelResult(c domain.Channel) Result {
	return Result{Kind: ResultChannel, Channel: &c}
}

// RoleResult wraps a freshly persisted role row.
func RoleResult(r domain.Role) Result {
	return Result{Kind: ResultRole, Role: &r}
}

// MessageResult wraps the platform id of a sent message.
func MessageResult(id domain.PlatformID) Result {
	return Result{Kind: ResultMessage, MessageID: id}
}

// Status is the persisted execution status of a task record.
type Status struct {
	State   State   `json:"state"`
	Result  *Result `json:"result,omitempty"`
	Message string  `json:"message,omitempty"`
}

// Pending returns the initial status every record is enqueued with.
func Pending() Status {
	return Status{State: StatePending}
}

// Completed returns a terminal status carrying the handler's result.
func Completed(r Result) Status {
	return Status{State: StateCompleted, Result: &r}
}

// Failed returns a terminal error status with a formatted description.
func Failed(format string, args ...any) Status {
	return Status{State: StateError, Message: fmt.Sprintf(format, args...)}
}

// Terminal reports whether the status will never change again.
func (s Status) Terminal() bool {
	return s.State != StatePending
}
