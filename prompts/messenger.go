package prompts

import "github.com/bwmarrin/discordgo"

// MessageContent is what a prompt service renders into a channel message.
type MessageContent struct {
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

// Messenger is the narrow view of the Discord API the prompt engine needs.
// Failures of these calls are logged and swallowed by the engine; the next
// reconciliation pass is the retry mechanism.
type Messenger interface {
	SendMessage(channelID string, content *MessageContent) (*discordgo.Message, error)
	DeleteMessage(channelID, messageID string) error
	// ChannelMessages fetches all messages currently in a channel.
	ChannelMessages(channelID string) ([]*discordgo.Message, error)

	User(userID string) (*discordgo.User, error)
	Channel(channelID string) (*discordgo.Channel, error)
	Guild(guildID string) (*discordgo.Guild, error)
	GuildMembers(guildID string) ([]*discordgo.Member, error)

	AddRole(guildID, userID, roleID, reason string) error
	BanUser(guildID, userID, reason string) error
	CreateTextChannel(guildID, name, parentID string) (*discordgo.Channel, error)
	DeleteChannel(channelID string) error

	// Acknowledge answers an interaction without visible output.
	Acknowledge(interaction *discordgo.Interaction) error
	// RespondEphemeral answers an interaction with a message only the
	// invoking user sees.
	RespondEphemeral(interaction *discordgo.Interaction, content *MessageContent) error
	// DeleteResponse removes a previous response to an interaction.
	DeleteResponse(interaction *discordgo.Interaction) error
}
