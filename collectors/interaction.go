package collectors

import (
	"fmt"
	"strings"
	"time"

	"rost/interfaces"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

const (
	// Separator joins a collector's base custom ID with its metadata parts
	// inside the custom ID round-tripped through Discord. It must never
	// appear inside a base custom ID; randomly generated IDs avoid it by
	// construction.
	Separator = "|"
	// Divider joins the parts of a compound base custom ID, e.g.
	// "removePrompt.reports".
	Divider = "."

	// NoneID marks the absence of a custom ID or command name.
	NoneID = "none"

	// InteractionTokenExpiry is how long Discord keeps an interaction token
	// alive. Non-permanent interaction collectors close themselves after
	// this.
	InteractionTokenExpiry = 15 * time.Minute

	// DefaultLocale is used when no guild-level override resolves.
	DefaultLocale = "en-GB"
)

// LocaleResolver resolves the language to respond in, taking guild and
// channel-scoped overrides into account.
type LocaleResolver interface {
	ResolveLocales(guildID, channelID string) (locale string, guildLocale string)
}

// Parameters are the options extracted from a command interaction. Repeat and
// Show are reserved implicit parameters, always present with defaults;
// Focused carries the name of the option being autocompleted, if any.
type Parameters struct {
	Repeat  bool
	Show    bool
	Focused string
	Values  map[string]any
}

// Interaction is the enriched, application-level view of a raw Discord
// interaction: locale-resolved, metadata-decoded, parameter-extracted and
// command-name-resolved. It is built once, at the collector boundary.
type Interaction struct {
	*discordgo.InteractionCreate

	Locale        string
	GuildLocale   string
	DisplayLocale string
	CommandName   string
	Metadata      []string
	Parameters    Parameters
}

// UserID returns the identity of the invoking user, whether the interaction
// arrived from a guild or a direct message.
func (i *Interaction) UserID() string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// InteractionCollectorOptions configures a new InteractionCollector.
type InteractionCollectorOptions struct {
	GuildID string
	// AnyType accepts every interaction type. Otherwise only Type (default
	// message component) passes the filter.
	AnyType bool
	Type    discordgo.InteractionType
	// AnyCustomID skips base-ID matching altogether.
	AnyCustomID bool
	// CustomID is the collector's base correlation ID. Randomly generated
	// when empty.
	CustomID string
	// Only restricts accepted interactions to the given user IDs. Empty
	// accepts anyone.
	Only      []string
	DependsOn *Collector
	IsSingle  bool
	// IsPermanent collectors never expire; others close after the
	// interaction token expiry.
	IsPermanent bool

	Locales LocaleResolver
	Log     interfaces.Logger
}

// InteractionCollector is a Collector specialised for interaction events. It
// owns a stable opaque custom ID: the sole routing key correlating incoming
// component presses, select choices and modal submissions back to this
// collector.
type InteractionCollector struct {
	*Collector

	CustomID string

	anyType      bool
	interaction  discordgo.InteractionType
	anyCustomID  bool
	only         map[string]struct{}
	baseID       string
	localeSource LocaleResolver
	log          interfaces.Logger
}

func NewInteractionCollector(options InteractionCollectorOptions) *InteractionCollector {
	customID := options.CustomID
	if customID == "" {
		customID = uuid.NewString()
	}

	interactionType := options.Type
	if interactionType == 0 {
		interactionType = discordgo.InteractionMessageComponent
	}

	only := make(map[string]struct{}, len(options.Only))
	for _, userID := range options.Only {
		only[userID] = struct{}{}
	}

	var removeAfter time.Duration
	if !options.IsPermanent {
		removeAfter = InteractionTokenExpiry
	}

	log := options.Log
	if log == nil {
		log = noopLogger{}
	}

	collector := &InteractionCollector{
		CustomID:     customID,
		anyType:      options.AnyType,
		interaction:  interactionType,
		anyCustomID:  options.AnyCustomID,
		only:         only,
		baseID:       DecodeID(customID)[0],
		localeSource: options.Locales,
		log:          log,
	}
	collector.Collector = NewCollector(CollectorOptions{
		GuildID:     options.GuildID,
		IsSingle:    options.IsSingle,
		RemoveAfter: removeAfter,
		DependsOn:   options.DependsOn,
		Filter:      collector.filterInteraction,
	})

	return collector
}

// EncodeID builds the custom ID to attach to a component so that a later
// press routes back to this collector. Callers constructing buttons, select
// menus or modals for this collector must go through it.
func (c *InteractionCollector) EncodeID(metadata ...string) string {
	return strings.Join(append([]string{c.CustomID}, metadata...), Separator)
}

// DecodeID splits an encoded custom ID. Element 0 is always the base custom
// ID; subsequent elements are positional metadata.
func DecodeID(encoded string) []string {
	return strings.Split(encoded, Separator)
}

// EncodeCustomID joins parts into a compound base custom ID.
func EncodeCustomID(parts ...string) string {
	return strings.Join(parts, Divider)
}

func (c *InteractionCollector) filterInteraction(event any) bool {
	interaction, ok := event.(*discordgo.InteractionCreate)
	if !ok {
		return false
	}

	if !c.anyType && interaction.Type != c.interaction {
		return false
	}

	if len(c.only) > 0 {
		if _, ok := c.only[interactionUserID(interaction)]; !ok {
			return false
		}
	}

	if interaction.Data == nil {
		return false
	}

	if !c.anyCustomID {
		customID, ok := interactionCustomID(interaction)
		if !ok {
			return false
		}

		if DecodeID(customID)[0] != c.baseID {
			return false
		}
	}

	return true
}

// OnInteraction registers the interaction callback. The raw interaction is
// enriched before the callback sees it.
func (c *InteractionCollector) OnInteraction(callback func(interaction *Interaction)) {
	c.OnCollect(func(event any) {
		raw, ok := event.(*discordgo.InteractionCreate)
		if !ok {
			return
		}

		enriched, err := c.enrich(raw)
		if err != nil {
			c.log.Error("Received a malformed interaction payload.", "error", err)
			return
		}

		callback(enriched)
	})
}

func (c *InteractionCollector) enrich(raw *discordgo.InteractionCreate) (*Interaction, error) {
	locale, guildLocale := c.resolveLocales(raw)
	metadata := interactionMetadata(raw)
	parameters := interactionParameters(raw)

	name := NoneID
	if raw.Type == discordgo.InteractionApplicationCommand ||
		raw.Type == discordgo.InteractionApplicationCommandAutocomplete {
		commandName, err := CommandName(raw)
		if err != nil {
			return nil, err
		}
		name = commandName
	}

	displayLocale := locale
	if parameters.Show {
		displayLocale = guildLocale
	}

	return &Interaction{
		InteractionCreate: raw,
		Locale:            locale,
		GuildLocale:       guildLocale,
		DisplayLocale:     displayLocale,
		CommandName:       name,
		Metadata:          metadata,
		Parameters:        parameters,
	}, nil
}

func (c *InteractionCollector) resolveLocales(raw *discordgo.InteractionCreate) (locale, guildLocale string) {
	locale = DefaultLocale
	guildLocale = DefaultLocale

	if c.localeSource != nil {
		locale, guildLocale = c.localeSource.ResolveLocales(raw.GuildID, raw.ChannelID)
	}

	// The user's own app language takes precedence for direct responses.
	if raw.Locale != "" {
		locale = string(raw.Locale)
	}

	return locale, guildLocale
}

// CommandName reconstructs the space-joined full command name from a command
// interaction, accounting for sub-command and sub-command-group nesting. A
// missing name component indicates a malformed payload and is reported as an
// error rather than swallowed.
func CommandName(raw *discordgo.InteractionCreate) (string, error) {
	data := raw.ApplicationCommandData()
	if data.Name == "" {
		return "", fmt.Errorf("command did not have a name")
	}

	for _, option := range data.Options {
		if option.Type == discordgo.ApplicationCommandOptionSubCommandGroup {
			subCommandName := ""
			for _, inner := range option.Options {
				if inner.Type == discordgo.ApplicationCommandOptionSubCommand {
					subCommandName = inner.Name
					break
				}
			}
			if subCommandName == "" {
				return "", fmt.Errorf("sub-command did not have a name")
			}

			return data.Name + " " + option.Name + " " + subCommandName, nil
		}
	}

	for _, option := range data.Options {
		if option.Type == discordgo.ApplicationCommandOptionSubCommand {
			return data.Name + " " + option.Name, nil
		}
	}

	return data.Name, nil
}

func interactionMetadata(raw *discordgo.InteractionCreate) []string {
	customID, ok := interactionCustomID(raw)
	if !ok {
		return []string{NoneID}
	}

	return DecodeID(customID)
}

func interactionParameters(raw *discordgo.InteractionCreate) Parameters {
	parameters := Parameters{Values: map[string]any{}}

	if raw.Type != discordgo.InteractionApplicationCommand &&
		raw.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return parameters
	}

	parseOptions(raw.ApplicationCommandData().Options, &parameters)

	if show, ok := parameters.Values["show"].(bool); ok {
		parameters.Show = show
	}
	if repeat, ok := parameters.Values["@repeat"].(bool); ok {
		parameters.Repeat = repeat
	}

	return parameters
}

func parseOptions(options []*discordgo.ApplicationCommandInteractionDataOption, parameters *Parameters) {
	for _, option := range options {
		if option.Focused {
			parameters.Focused = option.Name
		}

		if len(option.Options) > 0 {
			parseOptions(option.Options, parameters)
			continue
		}

		parameters.Values[option.Name] = option.Value
	}
}

func interactionCustomID(raw *discordgo.InteractionCreate) (string, bool) {
	switch raw.Type {
	case discordgo.InteractionMessageComponent:
		return raw.MessageComponentData().CustomID, true
	case discordgo.InteractionModalSubmit:
		return raw.ModalSubmitData().CustomID, true
	default:
		return "", false
	}
}

func interactionUserID(raw *discordgo.InteractionCreate) string {
	if raw.Member != nil && raw.Member.User != nil {
		return raw.Member.User.ID
	}
	if raw.User != nil {
		return raw.User.ID
	}
	return ""
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}
