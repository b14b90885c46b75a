package collectors

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buttonPress(customID, userID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionMessageComponent,
			Data: discordgo.MessageComponentInteractionData{CustomID: customID},
			Member: &discordgo.Member{
				User: &discordgo.User{ID: userID},
			},
		},
	}
}

func TestEncodeDecodeIDRoundTrip(t *testing.T) {
	collector := NewInteractionCollector(InteractionCollectorOptions{CustomID: "reports"})

	encoded := collector.EncodeID("guild/author/123", "true")
	decoded := DecodeID(encoded)

	require.Equal(t, []string{"reports", "guild/author/123", "true"}, decoded)
}

func TestEncodeCustomIDJoinsWithDivider(t *testing.T) {
	assert.Equal(t, "removePrompt.reports", EncodeCustomID("removePrompt", "reports"))
}

func TestInteractionCollectorRoutesByBaseID(t *testing.T) {
	a := NewInteractionCollector(InteractionCollectorOptions{CustomID: "alpha"})
	b := NewInteractionCollector(InteractionCollectorOptions{CustomID: "beta"})

	press := buttonPress(a.EncodeID("meta"), "user-1")

	assert.True(t, a.Filter(press))
	assert.False(t, b.Filter(press))
}

func TestInteractionCollectorRejectsOtherTypes(t *testing.T) {
	collector := NewInteractionCollector(InteractionCollectorOptions{CustomID: "alpha"})

	command := &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{Name: "ping"},
		},
	}

	assert.False(t, collector.Filter(command))
}

func TestInteractionCollectorOnlyRestrictsUsers(t *testing.T) {
	collector := NewInteractionCollector(InteractionCollectorOptions{
		CustomID: "alpha",
		Only:     []string{"user-1"},
	})

	assert.True(t, collector.Filter(buttonPress("alpha", "user-1")))
	assert.False(t, collector.Filter(buttonPress("alpha", "user-2")))
}

func TestInteractionCollectorAnyCustomIDSkipsMatching(t *testing.T) {
	collector := NewInteractionCollector(InteractionCollectorOptions{
		CustomID:    "alpha",
		AnyCustomID: true,
	})

	assert.True(t, collector.Filter(buttonPress("something-else", "user-1")))
}

func TestInteractionCollectorGeneratesRandomCustomID(t *testing.T) {
	a := NewInteractionCollector(InteractionCollectorOptions{})
	b := NewInteractionCollector(InteractionCollectorOptions{})

	require.NotEmpty(t, a.CustomID)
	require.NotEqual(t, a.CustomID, b.CustomID)
	assert.NotContains(t, a.CustomID, Separator)
}

func TestOnInteractionEnrichesMetadata(t *testing.T) {
	collector := NewInteractionCollector(InteractionCollectorOptions{CustomID: "alpha"})

	var got *Interaction
	collector.OnInteraction(func(interaction *Interaction) { got = interaction })

	collector.DispatchCollect(buttonPress(collector.EncodeID("partial", "true"), "user-1"))

	require.NotNil(t, got)
	assert.Equal(t, []string{"alpha", "partial", "true"}, got.Metadata)
	assert.Equal(t, "user-1", got.UserID())
	assert.Equal(t, NoneID, got.CommandName)
}

func TestOnInteractionDefaultsLocales(t *testing.T) {
	collector := NewInteractionCollector(InteractionCollectorOptions{CustomID: "alpha"})

	var got *Interaction
	collector.OnInteraction(func(interaction *Interaction) { got = interaction })

	collector.DispatchCollect(buttonPress("alpha", "user-1"))

	require.NotNil(t, got)
	assert.Equal(t, DefaultLocale, got.Locale)
	assert.Equal(t, DefaultLocale, got.GuildLocale)
}

func TestCommandNameResolvesNesting(t *testing.T) {
	cases := []struct {
		name    string
		options []*discordgo.ApplicationCommandInteractionDataOption
		want    string
	}{
		{name: "bare command", want: "config"},
		{
			name: "sub-command",
			options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "view", Type: discordgo.ApplicationCommandOptionSubCommand},
			},
			want: "config view",
		},
		{
			name: "sub-command group",
			options: []*discordgo.ApplicationCommandInteractionDataOption{
				{
					Name: "roles",
					Type: discordgo.ApplicationCommandOptionSubCommandGroup,
					Options: []*discordgo.ApplicationCommandInteractionDataOption{
						{Name: "add", Type: discordgo.ApplicationCommandOptionSubCommand},
					},
				},
			},
			want: "config roles add",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := &discordgo.InteractionCreate{
				Interaction: &discordgo.Interaction{
					Type: discordgo.InteractionApplicationCommand,
					Data: discordgo.ApplicationCommandInteractionData{
						Name:    "config",
						Options: tc.options,
					},
				},
			}

			name, err := CommandName(raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, name)
		})
	}
}

func TestCommandNameRejectsMissingName(t *testing.T) {
	raw := &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{},
		},
	}

	_, err := CommandName(raw)
	require.Error(t, err)
}
