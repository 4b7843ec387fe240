package task

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind discriminates the payload variants in their serialized form. Kind
// strings are part of the storage format: pending records written by an old
// deploy must stay deserializable, so the set is append-only and a kind is
// never renamed or reused.
type Kind string

// The closed set of effect families the bot can perform. Adding an effect
// means adding a Kind, a payload struct and a Route arm, never changing
// existing ones.
const (
	KindCategory Kind = "category"
	KindChannel  Kind = "channel"
	KindRole     Kind = "role"
	KindMessage  Kind = "message"
	KindThread   Kind = "thread"
)

// Payload describes one external effect to perform later. Each variant's
// fields are exactly the inputs needed for that effect.
type Payload interface {
	// PayloadKind returns the stable discriminant for serialization.
	PayloadKind() Kind
}

// ErrUnknownKind is returned when a persisted payload carries a kind this
// build does not know. That happens when a variant is removed, which is
// unsupported; the runner marks such records as errored rather than halting.
var ErrUnknownKind = errors.New("unknown task kind")

// envelope is the tagged-union wire form: the discriminant beside the
// variant's own fields.
type envelope struct {
	Kind Kind            `json:"kind"`
	Task json.RawMessage `json:"task"`
}

// payloadPrototypes maps each kind to a constructor for an empty payload of
// that variant. The decode side of the closed sum.
var payloadPrototypes = map[Kind]func() Payload{
	KindCategory: func() Payload { return &CategoryPayload{} },
	KindChannel:  func() Payload { return &ChannelPayload{} },
	KindRole:     func() Payload { return &RolePayload{} },
	KindMessage:  func() Payload { return &MessagePayload{} },
	KindThread:   func() Payload { return &ThreadPayload{} },
}

// Kinds returns every registered payload kind. Tests use this to hold the
// router and codec exhaustive.
func Kinds() []Kind {
	return []Kind{KindCategory, KindChannel, KindRole, KindMessage, KindThread}
}

// MarshalPayload serializes a payload into its tagged envelope form for
// storage in a JSONB column.
func MarshalPayload(p Payload) ([]byte, error) {
	inner, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", p.PayloadKind(), err)
	}
	return json.Marshal(envelope{Kind: p.PayloadKind(), Task: inner})
}

// UnmarshalPayload restores a payload from its tagged envelope form.
// Returns ErrUnknownKind for kinds not registered in this build.
func UnmarshalPayload(data []byte) (Payload, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task envelope: %w", err)
	}

	prototype, ok := payloadPrototypes[env.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Kind)
	}

	p := prototype()
	if err := json.Unmarshal(env.Task, p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s payload: %w", env.Kind, err)
	}
	return p, nil
}
