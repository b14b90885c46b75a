package prompts

import (
	"encoding/json"
	"strconv"

	"rost/collectors"
	"rost/interfaces"
	"rost/models"

	"github.com/bwmarrin/discordgo"
)

// ResourcesService manages the prompts backing submitted learning resources.
type ResourcesService struct {
	*Service
	store interfaces.DocumentStore
}

func NewResourcesService(deps Deps, store interfaces.DocumentStore) *ResourcesService {
	service := &ResourcesService{store: store}
	service.Service = NewService(deps, models.FeatureResources, DeleteModeDelete, service)
	return service
}

func (s *ResourcesService) LoadDocuments() (map[string]Document, error) {
	raw, err := s.store.LoadCollection(models.CollectionResources, s.GuildID()+models.IDSeparator)
	if err != nil {
		return nil, err
	}

	documents := make(map[string]Document, len(raw))
	for partialID, body := range raw {
		resource := &models.Resource{}
		if err := json.Unmarshal(body, resource); err != nil {
			s.Log().Warn("Skipping a malformed resource document.", "partialId", partialID, "error", err)
			continue
		}

		documents[partialID] = resource
	}

	return documents, nil
}

func (s *ResourcesService) PromptContent(owner *discordgo.User, document Document) *MessageContent {
	resource, ok := document.(*models.Resource)
	if !ok {
		return nil
	}

	colour := colourPending
	if resource.IsResolved {
		colour = colourSuccess
	}

	var buttons []discordgo.MessageComponent
	if resource.IsResolved {
		buttons = []discordgo.MessageComponent{
			discordgo.Button{
				Style:    discordgo.SuccessButton,
				Label:    "Mark as unresolved",
				CustomID: s.MagicButtonID(resource.PartialID(), strconv.FormatBool(false)),
			},
			discordgo.Button{
				Style:    discordgo.DangerButton,
				Label:    "Remove",
				CustomID: s.RemoveButtonID(resource.PartialID()),
			},
		}
	} else {
		buttons = []discordgo.MessageComponent{
			discordgo.Button{
				Style:    discordgo.PrimaryButton,
				Label:    "Mark as reviewed",
				CustomID: s.MagicButtonID(resource.PartialID(), strconv.FormatBool(true)),
			},
		}
	}

	return &MessageContent{
		Embeds: []*discordgo.MessageEmbed{
			{
				Description: "*" + resource.FormData.Resource + "*",
				Color:       colour,
				Footer: &discordgo.MessageEmbedFooter{
					Text:    owner.Username,
					IconURL: EncodeUserRecoveryTag(owner, resource.PartialID()),
				},
			},
		},
		Components: []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}},
	}
}

func (s *ResourcesService) NoPromptsContent() *MessageContent {
	return s.noPromptsContent("No resources", "There are no outstanding resource submissions.")
}

func (s *ResourcesService) HandleInteraction(interaction *collectors.Interaction) (Document, Outcome) {
	if len(interaction.Metadata) < 3 {
		return nil, OutcomeNone
	}

	document, ok := s.Document(interaction.Metadata[1])
	if !ok {
		return nil, OutcomeNone
	}

	resource, ok := document.(*models.Resource)
	if !ok {
		return nil, OutcomeNone
	}

	isResolve := interaction.Metadata[2] == "true"
	if isResolve && resource.IsResolved {
		s.Warn(interaction, "Already marked as reviewed", "This resource has already been marked as reviewed.")
		return nil, OutcomeNone
	}

	if !isResolve && !resource.IsResolved {
		s.Warn(interaction, "Already marked as unreviewed", "This resource has already been marked as unreviewed.")
		return nil, OutcomeNone
	}

	resource.IsResolved = isResolve
	if err := s.store.Store(resource.ID(), resource); err != nil {
		s.Log().Error("Failed to store a resource.", "partialId", resource.PartialID(), "error", err)
		return nil, OutcomeNone
	}

	if err := s.Messenger().Acknowledge(interaction.Interaction); err != nil {
		s.Log().Warn("Failed to acknowledge an interaction.", "error", err)
	}

	return resource, OutcomeUpdated
}

func (s *ResourcesService) DeleteDocument(document Document) error {
	resource, ok := document.(*models.Resource)
	if !ok {
		return nil
	}

	return s.store.Delete(resource.ID())
}
