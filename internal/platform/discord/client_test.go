package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skirmish-bot/skirmish/internal/task"
)

func TestMessageComponents(t *testing.T) {
	t.Parallel()

	assert.Nil(t, messageComponents(nil, nil))

	buttons := []task.Button{
		{Label: "Join Team", CustomID: "key-1"},
		{Label: "Leave Team", CustomID: "key-2"},
	}
	menu := &task.SelectMenu{
		CustomID:    "key-3",
		Placeholder: "No crew selected",
		Options: []task.SelectOption{
			{Label: "Galleon", Value: "key-4"},
		},
	}

	rows := messageComponents(buttons, menu)
	require.Len(t, rows, 2)

	buttonRow, ok := rows[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, buttonRow.Components, 2)
	button, ok := buttonRow.Components[0].(discordgo.Button)
	require.True(t, ok)
	assert.Equal(t, "Join Team", button.Label)
	assert.Equal(t, "key-1", button.CustomID)
	assert.Equal(t, discordgo.PrimaryButton, button.Style)

	menuRow, ok := rows[1].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, menuRow.Components, 1)
	selectMenu, ok := menuRow.Components[0].(discordgo.SelectMenu)
	require.True(t, ok)
	assert.Equal(t, discordgo.StringSelectMenu, selectMenu.MenuType)
	assert.Equal(t, "key-3", selectMenu.CustomID)
	require.Len(t, selectMenu.Options, 1)
	assert.Equal(t, "Galleon", selectMenu.Options[0].Label)
	assert.Equal(t, "key-4", selectMenu.Options[0].Value)
}

func TestMessageComponents_ButtonsOnly(t *testing.T) {
	t.Parallel()

	rows := messageComponents([]task.Button{{Label: "Join Team", CustomID: "key-1"}}, nil)
	require.Len(t, rows, 1)
}
