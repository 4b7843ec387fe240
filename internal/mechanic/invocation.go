package mechanic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/task"
)

// Kind discriminates the mechanic families in their serialized form. Like
// task kinds, the set is append-only once deployed.
type Kind string

// Registered mechanic kinds.
const (
	KindTeam Kind = "team"
	KindMenu Kind = "menu"
)

// Invocation is one runnable mechanic: a workflow plus the data it needs.
// Invocations serialize so a deferred component payload can carry them.
type Invocation interface {
	// MechanicKind returns the stable discriminant for serialization.
	MechanicKind() Kind

	// Handle runs the workflow to completion, blocking on each queued
	// step. Errors are returned for the surface layer to translate into a
	// user-facing reply.
	Handle(ctx context.Context, deps Deps) error
}

// ErrUnknownMechanic is returned when a persisted invocation carries a kind
// this build does not know.
var ErrUnknownMechanic = errors.New("unknown mechanic kind")

// Components mints the opaque keys embedded in message component custom ids.
// Implemented by the component payload store; declared here so mechanics can
// build UI elements without depending on that package.
type Components interface {
	// TaskKey stores a follow-up task payload and returns its key.
	TaskKey(ctx context.Context, p task.Payload) (uuid.UUID, error)

	// MechanicKey stores a follow-up mechanic invocation and returns its key.
	MechanicKey(ctx context.Context, inv Invocation) (uuid.UUID, error)

	// InertKey stores a deliberately empty payload and returns its key.
	InertKey(ctx context.Context) (uuid.UUID, error)
}

// TeamStore persists the game's team rows. Implementations resolve the
// platform guild id to the guild row internally.
type TeamStore interface {
	InsertTeam(ctx context.Context, guildID domain.PlatformID, team domain.Team) (domain.Team, error)
	GetTeam(ctx context.Context, id domain.RecordID) (domain.Team, error)
	ListTeams(ctx context.Context, guildID domain.PlatformID) ([]domain.Team, error)
	DeleteTeam(ctx context.Context, id domain.RecordID) error
}

// PlayerStore persists the game's player rows.
type PlayerStore interface {
	GetOrCreatePlayer(ctx context.Context, guildID, discordID domain.PlatformID, name string) (domain.Player, error)
	SetPlayerTeam(ctx context.Context, playerID, teamID domain.RecordID) error
	ClearPlayerTeam(ctx context.Context, playerID domain.RecordID) error
}

// Deps bundles everything a mechanic may touch. Interaction is non-nil only
// when the mechanic was triggered by activating a message component; those
// mechanics run in-process against the interaction instead of through the
// queue, because they need to know who clicked.
type Deps struct {
	Queue       *task.Queue
	Components  Components
	Teams       TeamStore
	Players     PlayerStore
	Interaction *discordgo.InteractionCreate
}

// interactionUser returns the platform id of the user behind the current
// interaction.
func (d Deps) interactionUser() (domain.PlatformID, string, error) {
	if d.Interaction == nil || d.Interaction.Member == nil || d.Interaction.Member.User == nil {
		return 0, "", errors.New("mechanic requires an interaction context")
	}
	user := d.Interaction.Member.User
	id, err := domain.ParsePlatformID(user.ID)
	if err != nil {
		return 0, "", err
	}
	return id, user.Username, nil
}

// awaitTask enqueues one step and blocks until its terminal status,
// translating an error status into a plain error.
func awaitTask(ctx context.Context, queue *task.Queue, p task.Payload) (task.Result, error) {
	status, err := queue.EnqueueAndWait(ctx, p)
	if err != nil {
		return task.Result{}, err
	}
	if status.State == task.StateError {
		return task.Result{}, fmt.Errorf("%s task failed: %s", p.PayloadKind(), status.Message)
	}
	if status.Result == nil {
		return task.NoneResult(), nil
	}
	return *status.Result, nil
}

// invocationEnvelope is the tagged-union wire form for invocations.
type invocationEnvelope struct {
	Kind     Kind            `json:"kind"`
	Mechanic json.RawMessage `json:"mechanic"`
}

// MarshalInvocation serializes an invocation into its tagged envelope form.
func MarshalInvocation(inv Invocation) ([]byte, error) {
	inner, err := json.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s mechanic: %w", inv.MechanicKind(), err)
	}
	return json.Marshal(invocationEnvelope{Kind: inv.MechanicKind(), Mechanic: inner})
}

// UnmarshalInvocation restores an invocation from its tagged envelope form.
func UnmarshalInvocation(data []byte) (Invocation, error) {
	var env invocationEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mechanic envelope: %w", err)
	}

	var inv Invocation
	switch env.Kind {
	case KindTeam:
		inv = &TeamInvocation{}
	case KindMenu:
		inv = &MenuInvocation{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMechanic, env.Kind)
	}

	if err := json.Unmarshal(env.Mechanic, inv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s mechanic: %w", env.Kind, err)
	}
	return inv, nil
}
