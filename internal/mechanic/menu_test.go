package mechanic

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuInvocation_StartTrade(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	inv := &MenuInvocation{GuildID: testGuildID, Job: MenuJobStartTrade, ChannelID: 31337}
	require.NoError(t, inv.Handle(ctx, h.deps))

	require.Len(t, h.platform.messages, 1)
	assert.Equal(t, "Trade started!", h.platform.messages[0])
}

func TestMenuInvocation_OpenComms(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	inv := &MenuInvocation{GuildID: testGuildID, Job: MenuJobOpenComms, ChannelID: 31337}
	require.NoError(t, inv.Handle(ctx, h.withInteraction(606060, "queequeg")))

	require.Len(t, h.platform.messages, 1)
	assert.Equal(t, "Comms opened by queequeg!", h.platform.messages[0])
}

func TestMenuInvocation_OpenCommsWithoutInteraction(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	inv := &MenuInvocation{GuildID: testGuildID, Job: MenuJobOpenComms, ChannelID: 31337}
	require.Error(t, inv.Handle(context.Background(), h.deps))
}

func TestMenuInvocation_RoleChangeMenu(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, name := range []string{"Airship", "Galleon", "Submarine"} {
		create := &TeamInvocation{GuildID: testGuildID, Job: TeamJobCreate, Name: name}
		require.NoError(t, create.Handle(ctx, h.deps))
	}

	inv := &MenuInvocation{GuildID: testGuildID, Job: MenuJobRoleChangeMenu, ChannelID: 31337}
	require.NoError(t, inv.Handle(ctx, h.deps))

	// Three welcome messages plus the picker.
	require.Len(t, h.platform.messages, 4)
	assert.Equal(t, "Pick your crew:", h.platform.messages[3])

	menu := h.platform.menus[3]
	require.NotNil(t, menu)
	require.Len(t, menu.Options, 3)

	// The menu itself carries an inert key; each option resolves to a
	// stored add-player invocation for its team.
	menuKey, err := uuid.Parse(menu.CustomID)
	require.NoError(t, err)
	assert.Contains(t, h.components.inert, menuKey)

	names := make(map[string]bool)
	for _, opt := range menu.Options {
		names[opt.Label] = true

		key, err := uuid.Parse(opt.Value)
		require.NoError(t, err)
		stored, ok := h.components.mechanics[key]
		require.True(t, ok)

		join, ok := stored.(*TeamInvocation)
		require.True(t, ok)
		assert.Equal(t, TeamJobAddPlayer, join.Job)
		assert.False(t, join.TeamID.IsZero())
	}
	assert.Equal(t, map[string]bool{"Airship": true, "Galleon": true, "Submarine": true}, names)
}

func TestMenuInvocation_RoleChangeMenuNoTeams(t *testing.T) {
	t.Parallel()

	h := newTestHarness(t)
	inv := &MenuInvocation{GuildID: testGuildID, Job: MenuJobRoleChangeMenu, ChannelID: 31337}
	require.Error(t, inv.Handle(context.Background(), h.deps))
	assert.Empty(t, h.platform.messages)
}

func TestInvocationRoundTrip(t *testing.T) {
	t.Parallel()

	invocations := []Invocation{
		&TeamInvocation{GuildID: 111, Job: TeamJobCreate, Name: "Galleon"},
		&TeamInvocation{GuildID: 111, Job: TeamJobAddPlayer, TeamID: 7, PlayerID: 424242},
		&MenuInvocation{GuildID: 222, Job: MenuJobRoleChangeMenu, ChannelID: 333},
	}

	for _, inv := range invocations {
		raw, err := MarshalInvocation(inv)
		require.NoError(t, err)

		restored, err := UnmarshalInvocation(raw)
		require.NoError(t, err)
		assert.Equal(t, inv, restored)
	}
}

func TestUnmarshalInvocation_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := UnmarshalInvocation([]byte(`{"kind":"siege","mechanic":{}}`))
	require.ErrorIs(t, err, ErrUnknownMechanic)
}

func TestUnmarshalInvocation_Malformed(t *testing.T) {
	t.Parallel()

	_, err := UnmarshalInvocation([]byte(`{"kind":`))
	require.Error(t, err)
}
