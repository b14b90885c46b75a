package prompts

import (
	"encoding/json"
	"strconv"

	"rost/collectors"
	"rost/interfaces"
	"rost/models"

	"github.com/bwmarrin/discordgo"
)

// SuggestionsService manages the prompts backing community suggestions.
type SuggestionsService struct {
	*Service
	store interfaces.DocumentStore
}

func NewSuggestionsService(deps Deps, store interfaces.DocumentStore) *SuggestionsService {
	service := &SuggestionsService{store: store}
	service.Service = NewService(deps, models.FeatureSuggestions, DeleteModeDelete, service)
	return service
}

func (s *SuggestionsService) LoadDocuments() (map[string]Document, error) {
	raw, err := s.store.LoadCollection(models.CollectionSuggestions, s.GuildID()+models.IDSeparator)
	if err != nil {
		return nil, err
	}

	documents := make(map[string]Document, len(raw))
	for partialID, body := range raw {
		suggestion := &models.Suggestion{}
		if err := json.Unmarshal(body, suggestion); err != nil {
			s.Log().Warn("Skipping a malformed suggestion document.", "partialId", partialID, "error", err)
			continue
		}

		documents[partialID] = suggestion
	}

	return documents, nil
}

func (s *SuggestionsService) PromptContent(owner *discordgo.User, document Document) *MessageContent {
	suggestion, ok := document.(*models.Suggestion)
	if !ok {
		return nil
	}

	colour := colourPending
	if suggestion.IsResolved {
		colour = colourSuccess
	}

	var buttons []discordgo.MessageComponent
	if suggestion.IsResolved {
		buttons = []discordgo.MessageComponent{
			discordgo.Button{
				Style:    discordgo.SuccessButton,
				Label:    "Mark as unresolved",
				CustomID: s.MagicButtonID(suggestion.PartialID(), strconv.FormatBool(false)),
			},
			discordgo.Button{
				Style:    discordgo.DangerButton,
				Label:    "Remove",
				CustomID: s.RemoveButtonID(suggestion.PartialID()),
			},
		}
	} else {
		buttons = []discordgo.MessageComponent{
			discordgo.Button{
				Style:    discordgo.PrimaryButton,
				Label:    "Mark as resolved",
				CustomID: s.MagicButtonID(suggestion.PartialID(), strconv.FormatBool(true)),
			},
		}
	}

	return &MessageContent{
		Embeds: []*discordgo.MessageEmbed{
			{
				Description: "*" + suggestion.FormData.Suggestion + "*",
				Color:       colour,
				Footer: &discordgo.MessageEmbedFooter{
					Text:    owner.Username,
					IconURL: EncodeUserRecoveryTag(owner, suggestion.PartialID()),
				},
			},
		},
		Components: []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}},
	}
}

func (s *SuggestionsService) NoPromptsContent() *MessageContent {
	return s.noPromptsContent("No suggestions", "There are no outstanding suggestions.")
}

func (s *SuggestionsService) HandleInteraction(interaction *collectors.Interaction) (Document, Outcome) {
	if len(interaction.Metadata) < 3 {
		return nil, OutcomeNone
	}

	document, ok := s.Document(interaction.Metadata[1])
	if !ok {
		return nil, OutcomeNone
	}

	suggestion, ok := document.(*models.Suggestion)
	if !ok {
		return nil, OutcomeNone
	}

	isResolve := interaction.Metadata[2] == "true"
	if isResolve && suggestion.IsResolved {
		s.Warn(interaction, "Already marked as resolved", "This suggestion has already been marked as resolved.")
		return nil, OutcomeNone
	}

	if !isResolve && !suggestion.IsResolved {
		s.Warn(interaction, "Already marked as unresolved", "This suggestion has already been marked as unresolved.")
		return nil, OutcomeNone
	}

	suggestion.IsResolved = isResolve
	if err := s.store.Store(suggestion.ID(), suggestion); err != nil {
		s.Log().Error("Failed to store a suggestion.", "partialId", suggestion.PartialID(), "error", err)
		return nil, OutcomeNone
	}

	if err := s.Messenger().Acknowledge(interaction.Interaction); err != nil {
		s.Log().Warn("Failed to acknowledge an interaction.", "error", err)
	}

	return suggestion, OutcomeUpdated
}

func (s *SuggestionsService) DeleteDocument(document Document) error {
	suggestion, ok := document.(*models.Suggestion)
	if !ok {
		return nil
	}

	return s.store.Delete(suggestion.ID())
}
