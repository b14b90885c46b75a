package bot

import (
	"rost/collectors"
	"rost/components"
	"rost/models"

	"github.com/bwmarrin/discordgo"
)

// registerEntryButton wires the permanent collector behind the "request
// entry" button guilds place in their gate channel. Button metadata carries
// the role the prospective member is asking for.
func (b *Bot) registerEntryButton() {
	requestEntry := collectors.NewInteractionCollector(collectors.InteractionCollectorOptions{
		CustomID:    "requestEntry",
		IsPermanent: true,
		Locales:     b.locales,
		Log:         b.log,
	})
	requestEntry.OnInteraction(b.handleRequestEntry)

	b.events.RegisterInteractionCollector(requestEntry)
}

func (b *Bot) handleRequestEntry(interaction *collectors.Interaction) {
	if len(interaction.Metadata) < 2 {
		return
	}
	requestedRoleID := interaction.Metadata[1]

	service, ok := b.verificationService(interaction.GuildID)
	if !ok {
		b.warn(interaction, "Verification disabled", "Verification is not enabled on this server.")
		return
	}

	if !b.vetEntrant(interaction) {
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
				Title: "Request entry",
				Fields: []components.ModalField{
					{Key: "reason", Label: "Why do you want to join?", Style: discordgo.TextInputParagraph, Required: true, MaxLength: 500},
					{Key: "aim", Label: "What is your aim here?", Style: discordgo.TextInputParagraph, Required: true, MaxLength: 500},
					{Key: "whereFound", Label: "Where did you find the server?", Style: discordgo.TextInputShort, Required: true, MaxLength: 200},
				},
			}
		},
		Validate: requireFields("reason", "aim", "whereFound"),
	})
	composer.OnSubmit(func(submission *collectors.Interaction, formData components.FormData) {
		request := models.NewEntryRequest(interaction.GuildID, interaction.UserID(), requestedRoleID,
			models.EntryRequestFormData{
				Reason:     formData["reason"],
				Aim:        formData["aim"],
				WhereFound: formData["whereFound"],
			})

		if _, exists := service.Document(request.PartialID()); exists {
			b.warn(submission, "Already answered", "You have already requested entry to this server.")
			return
		}

		if err := b.store.Store(request.ID(), request); err != nil {
			b.log.Error("Failed to store an entry request.", "partialId", request.PartialID(), "error", err)
			b.warn(submission, "Failed to submit", "Your answers could not be saved. Try again later.")
			return
		}

		b.journal(interaction.GuildID, models.FeatureVerification, "entryRequestSubmit", interaction.UserID())
		b.savePromptFor(service.Service, submission, request)
		b.notice(submission, "Answers submitted",
			"Your answers have been submitted. The server's verifiers will review them shortly.")
	})

	if err := composer.Open(); err != nil {
		b.log.Warn("Failed to display the entry request modal.", "error", err)
	}
}

// vetEntrant rejects users who already have a pending entry request or were
// rejected from the guild before.
func (b *Bot) vetEntrant(interaction *collectors.Interaction) bool {
	service, ok := b.verificationService(interaction.GuildID)
	if !ok {
		return false
	}

	partialID := models.BuildPartialID(interaction.GuildID, interaction.UserID())
	if _, exists := service.Document(partialID); exists {
		b.warn(interaction, "Already answered", "You have already requested entry to this server.")
		return false
	}

	user := models.NewUserDocument(interaction.UserID())
	if _, err := b.store.Load(user.ID(), user); err != nil {
		b.log.Warn("Failed to load a user document.", "userId", interaction.UserID(), "error", err)
		return false
	}

	if user.Statuses[interaction.GuildID] == models.StatusRejected {
		b.warn(interaction, "Entry denied", "Your entry request has been rejected before.")
		return false
	}

	return true
}
