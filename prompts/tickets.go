package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"rost/collectors"
	"rost/interfaces"
	"rost/models"

	"github.com/bwmarrin/discordgo"
)

// TicketsService manages the prompts backing open support channels. Removal
// runs in close mode: an authorised close takes down the ticket channel along
// with its document and prompt.
type TicketsService struct {
	*Service
	store interfaces.DocumentStore
}

func NewTicketsService(deps Deps, store interfaces.DocumentStore) *TicketsService {
	service := &TicketsService{store: store}
	service.Service = NewService(deps, models.FeatureTickets, DeleteModeClose, service)
	return service
}

func (s *TicketsService) LoadDocuments() (map[string]Document, error) {
	raw, err := s.store.LoadCollection(models.CollectionTickets, s.GuildID()+models.IDSeparator)
	if err != nil {
		return nil, err
	}

	documents := make(map[string]Document, len(raw))
	for partialID, body := range raw {
		ticket := &models.Ticket{}
		if err := json.Unmarshal(body, ticket); err != nil {
			s.Log().Warn("Skipping a malformed ticket document.", "partialId", partialID, "error", err)
			continue
		}

		if ticket.IsClosed {
			continue
		}

		documents[partialID] = ticket
	}

	return documents, nil
}

func (s *TicketsService) PromptContent(owner *discordgo.User, document Document) *MessageContent {
	ticket, ok := document.(*models.Ticket)
	if !ok {
		return nil
	}

	return &MessageContent{
		Embeds: []*discordgo.MessageEmbed{
			{
				Description: fmt.Sprintf("*%s*\n<#%s>", ticket.FormData.Topic, ticket.ChannelID),
				Color:       colourNeutral,
				Footer: &discordgo.MessageEmbedFooter{
					Text:    owner.Username,
					IconURL: EncodeUserRecoveryTag(owner, ticket.PartialID()),
				},
			},
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Style:    discordgo.DangerButton,
						Label:    "Close",
						CustomID: s.RemoveButtonID(ticket.PartialID()),
					},
				},
			},
		},
	}
}

func (s *TicketsService) NoPromptsContent() *MessageContent {
	return s.noPromptsContent("No open tickets", "There are no open tickets.")
}

// HandleInteraction has nothing to resolve: ticket prompts carry only the
// close button, which is routed through the removal handler instead.
func (s *TicketsService) HandleInteraction(_ *collectors.Interaction) (Document, Outcome) {
	return nil, OutcomeNone
}

// DeleteDocument marks the ticket closed, removes the persisted record and
// takes the ticket channel down with it.
func (s *TicketsService) DeleteDocument(document Document) error {
	ticket, ok := document.(*models.Ticket)
	if !ok {
		return nil
	}

	ticket.IsClosed = true

	if err := s.store.Delete(ticket.ID()); err != nil {
		return err
	}

	if err := s.Messenger().DeleteChannel(ticket.ChannelID); err != nil {
		s.Log().Warn("Failed to delete a ticket channel.", "channelId", ticket.ChannelID, "error", err)
	}

	return nil
}

// OpenTicket creates the ticket channel, persists the ticket document, posts
// the opening message into the new channel and saves the prompt. It is also
// how the verification service opens inquiry channels.
func (s *TicketsService) OpenTicket(user *discordgo.User, ticketType models.TicketType, formData models.TicketFormData) (*models.Ticket, error) {
	configuration, err := s.GuildDocument().Feature(models.FeatureTickets)
	if err != nil {
		return nil, err
	}

	channel, err := s.Messenger().CreateTextChannel(s.GuildID(), ticketChannelName(user.Username, formData.Topic), configuration.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to create a ticket channel: %w", err)
	}

	ticket := models.NewTicket(s.GuildID(), user.ID, channel.ID, ticketType, formData)
	if err := s.store.Store(ticket.ID(), ticket); err != nil {
		return nil, err
	}

	if _, err := s.Messenger().SendMessage(channel.ID, &MessageContent{
		Embeds: []*discordgo.MessageEmbed{
			{
				Description: fmt.Sprintf("<@%s>: *%s*", user.ID, formData.Topic),
				Color:       colourNeutral,
			},
		},
	}); err != nil {
		s.Log().Warn("Failed to send the opening message of a ticket.", "channelId", channel.ID, "error", err)
	}

	s.SavePrompt(user, ticket)

	return ticket, nil
}

// ticketChannelName derives a channel name within Discord's 100-character
// limit.
func ticketChannelName(username, topic string) string {
	name := username + "-" + topic
	if len(name) > 100 {
		name = name[:100]
	}

	return strings.ToLower(strings.ReplaceAll(name, " ", "-"))
}
