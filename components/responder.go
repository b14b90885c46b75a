// Package components provides reusable interaction flows built on top of the
// collectors package: multi-step modal form collection and paged browsing.
package components

import "github.com/bwmarrin/discordgo"

// Responder is the narrow view of the Discord API the component flows need
// to answer interactions.
type Responder interface {
	// DisplayModal shows a modal form in response to an interaction. The
	// custom ID correlates the later submission back to its collector.
	DisplayModal(interaction *discordgo.Interaction, customID, title string, components []discordgo.MessageComponent) error
	// Respond answers an interaction with a message, ephemeral or public.
	Respond(interaction *discordgo.Interaction, ephemeral bool, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) error
	// EditResponse replaces a previous response to an interaction.
	EditResponse(interaction *discordgo.Interaction, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) error
	// DeleteResponse removes a previous response to an interaction.
	DeleteResponse(interaction *discordgo.Interaction) error
	// Acknowledge answers an interaction without visible output.
	Acknowledge(interaction *discordgo.Interaction) error
}
