package bot

import (
	"rost/prompts"

	"github.com/bwmarrin/discordgo"
)

// channelMessageFetchLimit is the most messages one managed channel is
// expected to hold; prompt channels stay far below it.
const channelMessageFetchLimit = 100

// SessionMessenger adapts a Discord session to the narrow interfaces the
// prompt services and component flows work against.
type SessionMessenger struct {
	session *discordgo.Session
}

func NewSessionMessenger(session *discordgo.Session) *SessionMessenger {
	return &SessionMessenger{session: session}
}

func (m *SessionMessenger) SendMessage(channelID string, content *prompts.MessageContent) (*discordgo.Message, error) {
	return m.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     content.Embeds,
		Components: content.Components,
	})
}

func (m *SessionMessenger) DeleteMessage(channelID, messageID string) error {
	return m.session.ChannelMessageDelete(channelID, messageID)
}

func (m *SessionMessenger) ChannelMessages(channelID string) ([]*discordgo.Message, error) {
	return m.session.ChannelMessages(channelID, channelMessageFetchLimit, "", "", "")
}

func (m *SessionMessenger) User(userID string) (*discordgo.User, error) {
	return m.session.User(userID)
}

func (m *SessionMessenger) Channel(channelID string) (*discordgo.Channel, error) {
	return m.session.Channel(channelID)
}

func (m *SessionMessenger) Guild(guildID string) (*discordgo.Guild, error) {
	if guild, err := m.session.State.Guild(guildID); err == nil {
		return guild, nil
	}

	return m.session.Guild(guildID)
}

func (m *SessionMessenger) GuildMembers(guildID string) ([]*discordgo.Member, error) {
	if guild, err := m.session.State.Guild(guildID); err == nil && len(guild.Members) > 0 {
		return guild.Members, nil
	}

	return m.session.GuildMembers(guildID, "", 1000)
}

func (m *SessionMessenger) AddRole(guildID, userID, roleID, reason string) error {
	return m.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
}

func (m *SessionMessenger) BanUser(guildID, userID, reason string) error {
	return m.session.GuildBanCreateWithReason(guildID, userID, reason, 0)
}

func (m *SessionMessenger) CreateTextChannel(guildID, name, parentID string) (*discordgo.Channel, error) {
	return m.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: parentID,
	})
}

func (m *SessionMessenger) DeleteChannel(channelID string) error {
	_, err := m.session.ChannelDelete(channelID)
	return err
}

func (m *SessionMessenger) Acknowledge(interaction *discordgo.Interaction) error {
	return m.session.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

func (m *SessionMessenger) RespondEphemeral(interaction *discordgo.Interaction, content *prompts.MessageContent) error {
	return m.Respond(interaction, true, content.Embeds, content.Components)
}

func (m *SessionMessenger) Respond(interaction *discordgo.Interaction, ephemeral bool, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	return m.session.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     embeds,
			Components: components,
			Flags:      flags,
		},
	})
}

func (m *SessionMessenger) EditResponse(interaction *discordgo.Interaction, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	_, err := m.session.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{
		Embeds:     &embeds,
		Components: &components,
	})
	return err
}

func (m *SessionMessenger) DeleteResponse(interaction *discordgo.Interaction) error {
	return m.session.InteractionResponseDelete(interaction)
}

func (m *SessionMessenger) DisplayModal(interaction *discordgo.Interaction, customID, title string, components []discordgo.MessageComponent) error {
	return m.session.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   customID,
			Title:      title,
			Components: components,
		},
	})
}
