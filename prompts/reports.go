package prompts

import (
	"encoding/json"
	"strconv"

	"rost/collectors"
	"rost/interfaces"
	"rost/models"

	"github.com/bwmarrin/discordgo"
)

// ReportsService manages the prompts backing user reports.
type ReportsService struct {
	*Service
	store interfaces.DocumentStore
}

func NewReportsService(deps Deps, store interfaces.DocumentStore) *ReportsService {
	service := &ReportsService{store: store}
	service.Service = NewService(deps, models.FeatureReports, DeleteModeDelete, service)
	return service
}

func (s *ReportsService) LoadDocuments() (map[string]Document, error) {
	raw, err := s.store.LoadCollection(models.CollectionReports, s.GuildID()+models.IDSeparator)
	if err != nil {
		return nil, err
	}

	documents := make(map[string]Document, len(raw))
	for partialID, body := range raw {
		report := &models.Report{}
		if err := json.Unmarshal(body, report); err != nil {
			s.Log().Warn("Skipping a malformed report document.", "partialId", partialID, "error", err)
			continue
		}

		documents[partialID] = report
	}

	return documents, nil
}

func (s *ReportsService) PromptContent(owner *discordgo.User, document Document) *MessageContent {
	report, ok := document.(*models.Report)
	if !ok {
		return nil
	}

	guild, err := s.Messenger().Guild(s.GuildID())
	if err != nil {
		return nil
	}

	colour := colourFailure
	if report.IsResolved {
		colour = colourSuccess
	}

	messageLink := report.FormData.MessageLink
	if messageLink == "" {
		messageLink = "*No link provided.*"
	}

	var buttons []discordgo.MessageComponent
	if report.IsResolved {
		buttons = []discordgo.MessageComponent{
			discordgo.Button{
				Style:    discordgo.SuccessButton,
				Label:    "Mark as unresolved",
				CustomID: s.MagicButtonID(report.PartialID(), strconv.FormatBool(false)),
			},
			discordgo.Button{
				Style:    discordgo.DangerButton,
				Label:    "Close",
				CustomID: s.RemoveButtonID(report.PartialID()),
			},
		}
	} else {
		buttons = []discordgo.MessageComponent{
			discordgo.Button{
				Style:    discordgo.PrimaryButton,
				Label:    "Mark as resolved",
				CustomID: s.MagicButtonID(report.PartialID(), strconv.FormatBool(true)),
			},
		}
	}

	return &MessageContent{
		Embeds: []*discordgo.MessageEmbed{
			{
				Color:     colour,
				Thumbnail: &discordgo.MessageEmbedThumbnail{URL: owner.AvatarURL("128")},
				Fields: []*discordgo.MessageEmbedField{
					{Name: owner.Username, Value: report.FormData.Reason},
					{Name: "Reported users", Value: report.FormData.Users, Inline: true},
					{Name: "Message link", Value: messageLink, Inline: true},
				},
				Footer: &discordgo.MessageEmbedFooter{
					Text:    guild.Name,
					IconURL: EncodeGuildRecoveryTag(guild, report.PartialID()),
				},
			},
		},
		Components: []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}},
	}
}

func (s *ReportsService) NoPromptsContent() *MessageContent {
	return s.noPromptsContent("No reports", "There are no outstanding reports.")
}

func (s *ReportsService) HandleInteraction(interaction *collectors.Interaction) (Document, Outcome) {
	if len(interaction.Metadata) < 3 {
		return nil, OutcomeNone
	}

	document, ok := s.Document(interaction.Metadata[1])
	if !ok {
		return nil, OutcomeNone
	}

	report, ok := document.(*models.Report)
	if !ok {
		return nil, OutcomeNone
	}

	isResolve := interaction.Metadata[2] == "true"
	if isResolve && report.IsResolved {
		s.Warn(interaction, "Already marked as resolved", "This report has already been marked as resolved.")
		return nil, OutcomeNone
	}

	if !isResolve && !report.IsResolved {
		s.Warn(interaction, "Already marked as unresolved", "This report has already been marked as unresolved.")
		return nil, OutcomeNone
	}

	report.IsResolved = isResolve
	if err := s.store.Store(report.ID(), report); err != nil {
		s.Log().Error("Failed to store a report.", "partialId", report.PartialID(), "error", err)
		return nil, OutcomeNone
	}

	if err := s.Messenger().Acknowledge(interaction.Interaction); err != nil {
		s.Log().Warn("Failed to acknowledge an interaction.", "error", err)
	}

	return report, OutcomeUpdated
}

func (s *ReportsService) DeleteDocument(document Document) error {
	report, ok := document.(*models.Report)
	if !ok {
		return nil
	}

	return s.store.Delete(report.ID())
}
