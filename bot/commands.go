package bot

import (
	"strconv"
	"strings"
	"time"

	"rost/collectors"
	"rost/components"
	"rost/models"
	"rost/prompts"

	"github.com/bwmarrin/discordgo"
)

func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: "suggestion", Description: "Make a suggestion for the server."},
		{Name: "report", Description: "Report one or more users."},
		{Name: "resource", Description: "Share a learning resource."},
		{Name: "ticket", Description: "Open a support ticket."},
	}
}

// registerCommands wires the slash command handlers behind a single
// permanent collector that routes by resolved command name.
func (b *Bot) registerCommands() {
	b.commandHandlers["suggestion"] = b.handleSuggestionCommand
	b.commandHandlers["report"] = b.handleReportCommand
	b.commandHandlers["resource"] = b.handleResourceCommand
	b.commandHandlers["ticket"] = b.handleTicketCommand

	commands := collectors.NewInteractionCollector(collectors.InteractionCollectorOptions{
		Type:        discordgo.InteractionApplicationCommand,
		AnyCustomID: true,
		IsPermanent: true,
		Locales:     b.locales,
		Log:         b.log,
	})
	commands.OnInteraction(func(interaction *collectors.Interaction) {
		handler, ok := b.commandHandlers[interaction.CommandName]
		if !ok {
			return
		}

		handler(interaction)
	})

	b.events.RegisterInteractionCollector(commands)
}

func (b *Bot) handleSuggestionCommand(interaction *collectors.Interaction) {
	service, ok := b.suggestionsService(interaction.GuildID)
	if !ok {
		b.warn(interaction, "Suggestions disabled", "Suggestions are not enabled on this server.")
		return
	}

	if b.rejectWhenRateLimited(interaction, models.FeatureSuggestions, models.CollectionSuggestions) {
		return
	}

	composer := components.NewModalComposer(components.ComposerOptions{
		Responder: b.messenger,
		Events:    b.events,
		Locales:   b.locales,
		Log:       b.log,
		Anchor:    interaction,
		Build: func(formData components.FormData) components.Modal {
			return components.Modal{
				Title: "Make a suggestion",
				Fields: []components.ModalField{
					{Key: "suggestion", Label: "Suggestion", Style: discordgo.TextInputParagraph, Required: true, MaxLength: 1000},
				},
			}
		},
		Validate: requireFields("suggestion"),
	})
	composer.OnSubmit(func(submission *collectors.Interaction, formData components.FormData) {
		suggestion := models.NewSuggestion(interaction.GuildID, interaction.UserID(), models.SuggestionFormData{
			Suggestion: formData["suggestion"],
		})
		if err := b.store.Store(suggestion.ID(), suggestion); err != nil {
			b.log.Error("Failed to store a suggestion.", "partialId", suggestion.PartialID(), "error", err)
			b.warn(submission, "Failed to submit", "Your suggestion could not be saved. Try again later.")
			return
		}

		b.savePromptFor(service.Service, submission, suggestion)
		b.journal(interaction.GuildID, models.FeatureSuggestions, "suggestionSend", interaction.UserID())
		b.notice(submission, "Suggestion sent", "Your suggestion has been sent to the server's moderators.")
	})

	if err := composer.Open(); err != nil {
		b.log.Warn("Failed to display the suggestion modal.", "error", err)
	}
}

func (b *Bot) handleReportCommand(interaction *collectors.Interaction) {
	service, ok := b.reportsService(interaction.GuildID)
	if !ok {
		b.warn(interaction, "Reports disabled", "Reports are not enabled on this server.")
		return
	}

	if b.rejectWhenRateLimited(interaction, models.FeatureReports, models.CollectionReports) {
		return
	}

	composer := components.NewModalComposer(components.ComposerOptions{
		Responder: b.messenger,
		Events:    b.events,
		Locales:   b.locales,
		Log:       b.log,
		Anchor:    interaction,
		Build: func(formData components.FormData) components.Modal {
			return components.Modal{
				Title: "Report users",
				Fields: []components.ModalField{
					{Key: "reason", Label: "Reason", Style: discordgo.TextInputParagraph, Required: true, MaxLength: 1000},
					{Key: "users", Label: "Users to report", Style: discordgo.TextInputShort, Required: true, MaxLength: 200},
					{Key: "messageLink", Label: "Message link (optional)", Style: discordgo.TextInputShort, MaxLength: 200},
				},
			}
		},
		Validate: requireFields("reason", "users"),
	})
	composer.OnSubmit(func(submission *collectors.Interaction, formData components.FormData) {
		report := models.NewReport(interaction.GuildID, interaction.UserID(), models.ReportFormData{
			Reason:      formData["reason"],
			Users:       formData["users"],
			MessageLink: formData["messageLink"],
		})
		if err := b.store.Store(report.ID(), report); err != nil {
			b.log.Error("Failed to store a report.", "partialId", report.PartialID(), "error", err)
			b.warn(submission, "Failed to submit", "Your report could not be saved. Try again later.")
			return
		}

		b.savePromptFor(service.Service, submission, report)
		b.journal(interaction.GuildID, models.FeatureReports, "reportSubmit", interaction.UserID())
		b.notice(submission, "Report submitted", "Your report has been submitted to the server's moderators.")
	})

	if err := composer.Open(); err != nil {
		b.log.Warn("Failed to display the report modal.", "error", err)
	}
}

func (b *Bot) handleResourceCommand(interaction *collectors.Interaction) {
	service, ok := b.resourcesService(interaction.GuildID)
	if !ok {
		b.warn(interaction, "Resource submissions disabled", "Resource submissions are not enabled on this server.")
		return
	}

	if b.rejectWhenRateLimited(interaction, models.FeatureResources, models.CollectionResources) {
		return
	}

	composer := components.NewModalComposer(components.ComposerOptions{
		Responder: b.messenger,
		Events:    b.events,
		Locales:   b.locales,
		Log:       b.log,
		Anchor:    interaction,
		Build: func(formData components.FormData) components.Modal {
			return components.Modal{
				Title: "Share a resource",
				Fields: []components.ModalField{
					{Key: "resource", Label: "Resource", Style: discordgo.TextInputParagraph, Required: true, MaxLength: 1000},
				},
			}
		},
		Validate: requireFields("resource"),
	})
	composer.OnSubmit(func(submission *collectors.Interaction, formData components.FormData) {
		resource := models.NewResource(interaction.GuildID, interaction.UserID(), models.ResourceFormData{
			Resource: formData["resource"],
		})
		if err := b.store.Store(resource.ID(), resource); err != nil {
			b.log.Error("Failed to store a resource.", "partialId", resource.PartialID(), "error", err)
			b.warn(submission, "Failed to submit", "Your resource could not be saved. Try again later.")
			return
		}

		b.savePromptFor(service.Service, submission, resource)
		b.journal(interaction.GuildID, models.FeatureResources, "resourceSend", interaction.UserID())
		b.notice(submission, "Resource shared", "Your resource has been sent off for review.")
	})

	if err := composer.Open(); err != nil {
		b.log.Warn("Failed to display the resource modal.", "error", err)
	}
}

func (b *Bot) handleTicketCommand(interaction *collectors.Interaction) {
	service, ok := b.ticketsService(interaction.GuildID)
	if !ok {
		b.warn(interaction, "Tickets disabled", "Tickets are not enabled on this server.")
		return
	}

	composer := components.NewModalComposer(components.ComposerOptions{
		Responder: b.messenger,
		Events:    b.events,
		Locales:   b.locales,
		Log:       b.log,
		Anchor:    interaction,
		Build: func(formData components.FormData) components.Modal {
			return components.Modal{
				Title: "Open a ticket",
				Fields: []components.ModalField{
					{Key: "topic", Label: "Topic", Style: discordgo.TextInputParagraph, Required: true, MaxLength: 200},
				},
			}
		},
		Validate: requireFields("topic"),
	})
	composer.OnSubmit(func(submission *collectors.Interaction, formData components.FormData) {
		user, err := b.messenger.User(interaction.UserID())
		if err != nil {
			b.warn(submission, "Failed to open ticket", "Your ticket could not be opened. Try again later.")
			return
		}

		ticket, err := service.OpenTicket(user, models.TicketStandalone, models.TicketFormData{
			Topic: formData["topic"],
		})
		if err != nil {
			b.log.Error("Failed to open a ticket.", "guildId", interaction.GuildID, "error", err)
			b.warn(submission, "Failed to open ticket", "Your ticket could not be opened. Try again later.")
			return
		}

		b.journal(interaction.GuildID, models.FeatureTickets, "ticketOpen", interaction.UserID())
		b.notice(submission, "Ticket opened", "Your ticket has been opened: <#"+ticket.ChannelID+">")
	})

	if err := composer.Open(); err != nil {
		b.log.Warn("Failed to display the ticket modal.", "error", err)
	}
}

// rejectWhenRateLimited checks the guild's rate limit for a feature against
// the user's previous submissions and, when crossed, tells the user so. It
// reports whether the command should stop here.
func (b *Bot) rejectWhenRateLimited(interaction *collectors.Interaction, feature, collection string) bool {
	limit, ok := b.guildDocument(interaction.GuildID).RateLimit(feature)
	if !ok {
		return false
	}

	raw, err := b.store.LoadCollection(collection,
		models.BuildPartialID(interaction.GuildID, interaction.UserID())+models.IDSeparator)
	if err != nil {
		b.log.Warn("Failed to load previous submissions for rate limiting.", "collection", collection, "error", err)
		return false
	}

	createdAts := make([]int64, 0, len(raw))
	for partialID := range raw {
		parts := models.PartialIDParts(partialID)
		createdAt, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
		if err != nil {
			continue
		}

		createdAts = append(createdAts, createdAt)
	}

	if !models.CrossesRateLimit(createdAts, limit, time.Now()) {
		return false
	}

	b.warn(interaction, "Too many submissions", "You have made too many submissions recently. Try again later.")
	return true
}

// savePromptFor posts the prompt for a freshly stored document, telling the
// user when the configured channel cannot take it right now; reconciliation
// will catch up later.
func (b *Bot) savePromptFor(service *prompts.Service, submission *collectors.Interaction, document prompts.Document) {
	owner, err := b.messenger.User(document.OwnerID())
	if err != nil {
		b.log.Warn("Failed to resolve the owner of a new document.", "partialId", document.PartialID(), "error", err)
		return
	}

	if prompt := service.SavePrompt(owner, document); prompt == nil {
		b.log.Warn("Could not create a prompt for a new document.",
			"type", service.Type(), "partialId", document.PartialID())
	}
}

// journal emits an audit log entry when the guild has journalling enabled
// for the feature.
func (b *Bot) journal(guildID, feature, event, actorID string) {
	if !b.guildDocument(guildID).IsJournalled(feature) {
		return
	}

	b.log.Info("Journal entry.", "event", event, "guildId", guildID, "actorId", actorID)
}

func (b *Bot) warn(interaction *collectors.Interaction, title, description string) {
	b.respond(interaction, title, description, 0xd8a24a)
}

func (b *Bot) notice(interaction *collectors.Interaction, title, description string) {
	b.respond(interaction, title, description, 0x4a5bd8)
}

func (b *Bot) respond(interaction *collectors.Interaction, title, description string, colour int) {
	err := b.messenger.Respond(interaction.Interaction, true,
		[]*discordgo.MessageEmbed{{Title: title, Description: description, Color: colour}}, nil)
	if err != nil {
		b.log.Warn("Failed to respond to an interaction.", "error", err)
	}
}

// requireFields builds a validator rejecting submissions with any of the
// named fields left blank.
func requireFields(keys ...string) func(formData components.FormData) string {
	return func(formData components.FormData) string {
		for _, key := range keys {
			if strings.TrimSpace(formData[key]) == "" {
				return "Some required fields were left blank."
			}
		}

		return ""
	}
}

func (b *Bot) reportsService(guildID string) (*prompts.ReportsService, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	service, ok := b.reports[guildID]
	return service, ok
}

func (b *Bot) suggestionsService(guildID string) (*prompts.SuggestionsService, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	service, ok := b.suggestions[guildID]
	return service, ok
}

func (b *Bot) resourcesService(guildID string) (*prompts.ResourcesService, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	service, ok := b.resources[guildID]
	return service, ok
}

func (b *Bot) ticketsService(guildID string) (*prompts.TicketsService, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	service, ok := b.tickets[guildID]
	return service, ok
}

func (b *Bot) verificationService(guildID string) (*prompts.VerificationService, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	service, ok := b.verification[guildID]
	return service, ok
}
