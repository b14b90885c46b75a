package prompts

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Prompt messages carry their owning document's partial ID appended to the
// icon URL of their last embed's footer. This is the only bridge between a
// bare channel message and the document it represents: after a restart wipes
// the in-memory indices, reconciliation rebuilds them from these tags alone.

const recoveryTagMarker = "&metadata="

// NoPromptsTag marks the sentinel message shown while no documents have
// prompts.
const NoPromptsTag = "noPrompts"

// defaultIconURL stands in when a guild has no icon. The tag must ride on a
// URL the platform accepts or the message is rejected.
const defaultIconURL = "https://cdn.discordapp.com/embed/avatars/0.png"

// EncodeRecoveryTag appends a recovery tag to a decorative icon URL.
func EncodeRecoveryTag(iconURL, tag string) string {
	return iconURL + recoveryTagMarker + tag
}

// EncodeUserRecoveryTag tags a user's avatar URL.
func EncodeUserRecoveryTag(user *discordgo.User, tag string) string {
	return EncodeRecoveryTag(user.AvatarURL("64"), tag)
}

// EncodeGuildRecoveryTag tags a guild's icon URL.
func EncodeGuildRecoveryTag(guild *discordgo.Guild, tag string) string {
	iconURL := guild.IconURL("64")
	if iconURL == "" {
		iconURL = defaultIconURL
	}

	return EncodeRecoveryTag(iconURL, tag)
}

// DecodeRecoveryTag recovers the tag embedded in a message, if the message
// is a prompt at all. Human-authored messages and corrupted prompts return
// false.
func DecodeRecoveryTag(message *discordgo.Message) (string, bool) {
	if len(message.Embeds) == 0 {
		return "", false
	}

	embed := message.Embeds[len(message.Embeds)-1]
	if embed.Footer == nil || embed.Footer.IconURL == "" {
		return "", false
	}

	index := strings.LastIndex(embed.Footer.IconURL, recoveryTagMarker)
	if index < 0 {
		return "", false
	}

	tag := embed.Footer.IconURL[index+len(recoveryTagMarker):]
	if tag == "" {
		return "", false
	}

	return tag, true
}
