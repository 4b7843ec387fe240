package component

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/skirmish-bot/skirmish/internal/mechanic"
	"github.com/skirmish-bot/skirmish/internal/task"
)

// Kind discriminates the two payload families a component can defer to.
type Kind string

// Registered payload kinds.
const (
	KindTask     Kind = "task"
	KindMechanic Kind = "mechanic"
)

// ErrUnknownDataKind is returned when a persisted component payload carries
// a kind this build does not know.
var ErrUnknownDataKind = errors.New("unknown component payload kind")

// Data is a deferred component payload: exactly one of Task or Mechanic is
// set. The inert case has no Data at all: it is a stored key with a NULL
// payload, surfaced by the store as a nil *Data.
type Data struct {
	Task     task.Payload
	Mechanic mechanic.Invocation
}

// TaskData wraps a task payload for deferral.
func TaskData(p task.Payload) *Data {
	return &Data{Task: p}
}

// MechanicData wraps a mechanic invocation for deferral.
func MechanicData(inv mechanic.Invocation) *Data {
	return &Data{Mechanic: inv}
}

// Kind returns the discriminant for the populated arm.
func (d *Data) Kind() Kind {
	if d.Task != nil {
		return KindTask
	}
	return KindMechanic
}

// dataEnvelope is the stored wire form. Payload holds the nested tagged
// envelope of the task or mechanic package.
type dataEnvelope struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// MarshalJSON implements json.Marshaler.
func (d *Data) MarshalJSON() ([]byte, error) {
	switch {
	case d.Task != nil && d.Mechanic != nil:
		return nil, errors.New("component payload has both a task and a mechanic")
	case d.Task != nil:
		inner, err := task.MarshalPayload(d.Task)
		if err != nil {
			return nil, err
		}
		return json.Marshal(dataEnvelope{Kind: KindTask, Payload: inner})
	case d.Mechanic != nil:
		inner, err := mechanic.MarshalInvocation(d.Mechanic)
		if err != nil {
			return nil, err
		}
		return json.Marshal(dataEnvelope{Kind: KindMechanic, Payload: inner})
	default:
		return nil, errors.New("component payload has neither a task nor a mechanic")
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Data) UnmarshalJSON(raw []byte) error {
	var env dataEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to unmarshal component payload envelope: %w", err)
	}

	switch env.Kind {
	case KindTask:
		p, err := task.UnmarshalPayload(env.Payload)
		if err != nil {
			return err
		}
		*d = Data{Task: p}
	case KindMechanic:
		inv, err := mechanic.UnmarshalInvocation(env.Payload)
		if err != nil {
			return err
		}
		*d = Data{Mechanic: inv}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDataKind, env.Kind)
	}
	return nil
}
