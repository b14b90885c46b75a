package prompts

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"rost/collectors"
	"rost/interfaces"
	"rost/models"

	"github.com/bwmarrin/discordgo"
)

// VerificationService manages entry-request prompts: each prompt is a ballot
// the guild's verifiers vote on, and a reached verdict grants the requested
// role or bans the author. Prompts cannot be removed; they resolve only
// through a verdict.
type VerificationService struct {
	*Service
	store   interfaces.DocumentStore
	tickets *TicketsService

	openInquiry *collectors.InteractionCollector
}

// NewVerificationService builds the service. The tickets service may be nil
// when the tickets feature is disabled; inquiry channels are then
// unavailable.
func NewVerificationService(deps Deps, store interfaces.DocumentStore, tickets *TicketsService) *VerificationService {
	service := &VerificationService{store: store, tickets: tickets}
	service.Service = NewService(deps, models.FeatureVerification, DeleteModeNone, service)
	return service
}

func (s *VerificationService) Start() error {
	openInquiry := collectors.NewInteractionCollector(collectors.InteractionCollectorOptions{
		GuildID:     s.GuildID(),
		CustomID:    "createInquiry",
		IsPermanent: true,
		Locales:     s.deps.Locales,
		Log:         s.Log(),
	})
	openInquiry.OnInteraction(s.handleOpenInquiry)

	s.mu.Lock()
	s.openInquiry = openInquiry
	s.mu.Unlock()

	s.Events().RegisterInteractionCollector(openInquiry)

	if err := s.Service.Start(); err != nil {
		openInquiry.Close()
		return err
	}

	return nil
}

func (s *VerificationService) Stop() {
	s.mu.Lock()
	openInquiry := s.openInquiry
	s.openInquiry = nil
	s.mu.Unlock()

	if openInquiry != nil {
		openInquiry.Close()
	}

	s.Service.Stop()
}

func (s *VerificationService) Reconcile() error {
	s.Stop()
	return s.Start()
}

// LoadDocuments loads the guild's unresolved entry requests. Requests whose
// verdict was already reached, e.g. because thresholds changed while the bot
// was offline, are finalised here instead of being turned into prompts.
func (s *VerificationService) LoadDocuments() (map[string]Document, error) {
	raw, err := s.store.LoadCollection(models.CollectionEntryRequests, s.GuildID()+models.IDSeparator)
	if err != nil {
		return nil, err
	}

	documents := make(map[string]Document, len(raw))
	for partialID, body := range raw {
		request := &models.EntryRequest{}
		if err := json.Unmarshal(body, request); err != nil {
			s.Log().Warn("Skipping a malformed entry request document.", "partialId", partialID, "error", err)
			continue
		}

		if request.IsResolved {
			continue
		}

		votes, ok := s.voteInformation(request)
		if !ok {
			continue
		}

		if _, reached := request.GetVerdict(votes.acceptance.required, votes.rejection.required); reached {
			s.tryFinalise(request, "")
			continue
		}

		documents[partialID] = request
	}

	return documents, nil
}

func (s *VerificationService) PromptContent(owner *discordgo.User, document Document) *MessageContent {
	request, ok := document.(*models.EntryRequest)
	if !ok {
		return nil
	}

	votes, ok := s.voteInformation(request)
	if !ok {
		return nil
	}

	guild, err := s.Messenger().Guild(s.GuildID())
	if err != nil {
		s.Log().Warn("Failed to fetch the guild for an entry request prompt.", "guildId", s.GuildID(), "error", err)
		return nil
	}

	buttons := []discordgo.MessageComponent{
		discordgo.Button{
			Style:    discordgo.SuccessButton,
			Label:    voteButtonLabel("Accept", votes.acceptance.remaining),
			CustomID: s.MagicButtonID(request.PartialID(), strconv.FormatBool(true)),
		},
		discordgo.Button{
			Style:    discordgo.DangerButton,
			Label:    voteButtonLabel("Reject", votes.rejection.remaining),
			CustomID: s.MagicButtonID(request.PartialID(), strconv.FormatBool(false)),
		},
	}
	if request.TicketChannelID == "" && s.tickets != nil {
		s.mu.Lock()
		openInquiry := s.openInquiry
		s.mu.Unlock()
		if openInquiry != nil {
			buttons = append(buttons, discordgo.Button{
				Style:    discordgo.PrimaryButton,
				Label:    "Open inquiry",
				CustomID: openInquiry.EncodeID(request.PartialID()),
			})
		}
	}

	return &MessageContent{
		Embeds: []*discordgo.MessageEmbed{
			{
				Color:     colourNeutral,
				Thumbnail: &discordgo.MessageEmbedThumbnail{URL: owner.AvatarURL("128")},
				Fields: []*discordgo.MessageEmbedField{
					{
						Name: owner.Username,
						Value: fmt.Sprintf("1. *%s*\n2. *%s*\n3. *%s*",
							request.FormData.Reason, request.FormData.Aim, request.FormData.WhereFound),
					},
					{
						Name:   "Requested role",
						Value:  fmt.Sprintf("<@&%s>", request.RequestedRoleID),
						Inline: true,
					},
					{
						Name:   "Answers submitted",
						Value:  fmt.Sprintf("<t:%d:R>", request.CreatedAt/1000),
						Inline: true,
					},
					{
						Name:   "Votes for",
						Value:  voterList(request.VotersFor),
						Inline: true,
					},
					{
						Name:   "Votes against",
						Value:  voterList(request.VotersAgainst),
						Inline: true,
					},
				},
				Footer: &discordgo.MessageEmbedFooter{
					Text:    guild.Name,
					IconURL: EncodeGuildRecoveryTag(guild, request.PartialID()),
				},
			},
		},
		Components: []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}},
	}
}

func (s *VerificationService) NoPromptsContent() *MessageContent {
	return s.noPromptsContent("No entry requests", "There are no entry requests to review.")
}

func (s *VerificationService) HandleInteraction(interaction *collectors.Interaction) (Document, Outcome) {
	if len(interaction.Metadata) < 3 || interaction.Member == nil {
		return nil, OutcomeNone
	}

	document, ok := s.Document(interaction.Metadata[1])
	if !ok {
		s.Warn(interaction, "Failed to register vote", "This entry request no longer exists.")
		return nil, OutcomeNone
	}

	request, ok := document.(*models.EntryRequest)
	if !ok {
		return nil, OutcomeNone
	}

	if request.TicketChannelID != "" {
		if _, err := s.Messenger().Channel(request.TicketChannelID); err == nil {
			s.Warn(interaction, "Inquiry in progress",
				"An inquiry into this entry request is open. Close it before voting.")
			return nil, OutcomeNone
		}

		// The inquiry channel is gone; clear the stale reference.
		request.TicketChannelID = ""
		if err := s.store.Store(request.ID(), request); err != nil {
			s.Log().Warn("Failed to store an entry request.", "partialId", request.PartialID(), "error", err)
		}
	}

	newVote := models.VoteAgainst
	if interaction.Metadata[2] == "true" {
		newVote = models.VoteFor
	}

	voterID := interaction.UserID()
	currentVote, hasVoted := request.UserVote(voterID)

	if hasVoted && currentVote == newVote {
		if s.isAuthorised(interaction.Member, voterID) {
			return s.confirmForcedVerdict(interaction, request, newVote)
		}

		if newVote == models.VoteFor {
			s.Warn(interaction, "Already voted in favour", "You have already voted to accept this entry request.")
		} else {
			s.Warn(interaction, "Already voted against", "You have already voted to reject this entry request.")
		}
		return nil, OutcomeNone
	}

	request.AddVote(voterID, newVote)
	if err := s.store.Store(request.ID(), request); err != nil {
		s.Log().Error("Failed to store an entry request.", "partialId", request.PartialID(), "error", err)
		return nil, OutcomeNone
	}

	if hasVoted {
		s.Notice(interaction, "Stance changed", "Your previous vote has been withdrawn in favour of your new one.")
	} else if err := s.Messenger().Acknowledge(interaction.Interaction); err != nil {
		s.Log().Warn("Failed to acknowledge a vote.", "error", err)
	}

	if s.tryFinalise(request, voterID) {
		return request, OutcomeResolved
	}

	return request, OutcomeUpdated
}

// DeleteDocument removes an entry request that can no longer be rendered.
func (s *VerificationService) DeleteDocument(document Document) error {
	request, ok := document.(*models.EntryRequest)
	if !ok {
		return nil
	}

	return s.store.Delete(request.ID())
}

// confirmForcedVerdict runs the override flow: an authorised manager pressing
// their existing stance again is offered a confirmation that, if accepted,
// fixes the verdict permanently regardless of vote counts. The flow blocks on
// a pair of single-shot collectors scoped to the manager; expiry of either
// abandons the override.
func (s *VerificationService) confirmForcedVerdict(interaction *collectors.Interaction, request *models.EntryRequest, vote models.VoteType) (Document, Outcome) {
	verdict := models.VerdictRejected
	title := "Sure you want to force rejection?"
	description := "This will reject the entry request regardless of votes, ban its author and cannot be undone."
	if vote == models.VoteFor {
		verdict = models.VerdictAccepted
		title = "Sure you want to force acceptance?"
		description = "This will accept the entry request regardless of votes and cannot be undone."
	}

	confirmButton := collectors.NewInteractionCollector(collectors.InteractionCollectorOptions{
		GuildID:  s.GuildID(),
		Only:     []string{interaction.UserID()},
		IsSingle: true,
		Locales:  s.deps.Locales,
		Log:      s.Log(),
	})
	cancelButton := collectors.NewInteractionCollector(collectors.InteractionCollectorOptions{
		GuildID:  s.GuildID(),
		Only:     []string{interaction.UserID()},
		IsSingle: true,
		Locales:  s.deps.Locales,
		Log:      s.Log(),
	})

	type decision struct {
		document Document
		outcome  Outcome
	}

	var once sync.Once
	result := make(chan decision, 1)
	resolve := func(document Document, outcome Outcome) {
		once.Do(func() { result <- decision{document, outcome} })
	}

	confirmButton.OnInteraction(func(press *collectors.Interaction) {
		if err := s.Messenger().DeleteResponse(interaction.Interaction); err != nil {
			s.Log().Warn("Failed to delete a confirmation message.", "error", err)
		}

		if request.IsResolved {
			resolve(nil, OutcomeNone)
			return
		}

		request.ForceVerdict(interaction.UserID(), verdict)
		if err := s.store.Store(request.ID(), request); err != nil {
			s.Log().Error("Failed to store an entry request.", "partialId", request.PartialID(), "error", err)
			resolve(nil, OutcomeNone)
			return
		}

		if err := s.Messenger().Acknowledge(press.Interaction); err != nil {
			s.Log().Warn("Failed to acknowledge a forced verdict.", "error", err)
		}

		s.tryFinalise(request, interaction.UserID())
		resolve(request, OutcomeResolved)
	})

	cancelButton.OnInteraction(func(press *collectors.Interaction) {
		if err := s.Messenger().DeleteResponse(interaction.Interaction); err != nil {
			s.Log().Warn("Failed to delete a confirmation message.", "error", err)
		}

		if err := s.Messenger().Acknowledge(press.Interaction); err != nil {
			s.Log().Warn("Failed to acknowledge a cancellation.", "error", err)
		}

		resolve(nil, OutcomeNone)
	})

	confirmButton.OnDone(func() { resolve(nil, OutcomeNone) })
	cancelButton.OnDone(func() { resolve(nil, OutcomeNone) })

	s.Events().RegisterInteractionCollector(confirmButton)
	s.Events().RegisterInteractionCollector(cancelButton)

	err := s.Messenger().RespondEphemeral(interaction.Interaction, &MessageContent{
		Embeds: []*discordgo.MessageEmbed{{Title: title, Description: description, Color: colourWarning}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{Style: discordgo.SuccessButton, Label: "Yes", CustomID: confirmButton.EncodeID()},
					discordgo.Button{Style: discordgo.DangerButton, Label: "No", CustomID: cancelButton.EncodeID()},
				},
			},
		},
	})
	if err != nil {
		s.Log().Warn("Failed to show a confirmation message.", "error", err)
		resolve(nil, OutcomeNone)
	}

	outcome := <-result

	confirmButton.Close()
	cancelButton.Close()

	return outcome.document, outcome.outcome
}

// tryFinalise resolves the request when its verdict is reached: acceptance
// grants the requested role, rejection bans the author, and either records
// the outcome on the author's user document. It reports whether the request
// was resolved.
func (s *VerificationService) tryFinalise(request *models.EntryRequest, voterID string) bool {
	votes, ok := s.voteInformation(request)
	if !ok {
		return false
	}

	verdict, reached := request.GetVerdict(votes.acceptance.required, votes.rejection.required)
	if !reached {
		return false
	}

	request.IsResolved = true
	if err := s.store.Store(request.ID(), request); err != nil {
		s.Log().Error("Failed to store a resolved entry request.", "partialId", request.PartialID(), "error", err)
	}

	author := models.NewUserDocument(request.AuthorID)
	if _, err := s.store.Load(author.ID(), author); err != nil {
		s.Log().Warn("Failed to load a user document.", "userId", request.AuthorID, "error", err)
	}

	switch verdict {
	case models.VerdictAccepted:
		author.SetAuthorisationStatus(s.GuildID(), models.StatusAuthorised)

		s.Log().Info("Accepted a user onto the guild.",
			"userId", request.AuthorID, "guildId", s.GuildID())

		if err := s.Messenger().AddRole(s.GuildID(), request.AuthorID, request.RequestedRoleID, "User-requested role addition."); err != nil {
			s.Log().Warn("Failed to add a role to an accepted user.",
				"userId", request.AuthorID, "roleId", request.RequestedRoleID, "error", err)
		}

		s.journal("entryRequestAccept", request.AuthorID, voterID)
	case models.VerdictRejected:
		author.SetAuthorisationStatus(s.GuildID(), models.StatusRejected)

		s.Log().Info("Rejected a user from the guild.",
			"userId", request.AuthorID, "guildId", s.GuildID())

		if err := s.Messenger().BanUser(s.GuildID(), request.AuthorID, "Voted to reject entry request."); err != nil {
			s.Log().Warn("Failed to ban a rejected user.", "userId", request.AuthorID, "error", err)
		}

		s.journal("entryRequestReject", request.AuthorID, voterID)
	}

	if err := s.store.Store(author.ID(), author); err != nil {
		s.Log().Warn("Failed to store a user document.", "userId", request.AuthorID, "error", err)
	}

	return true
}

func (s *VerificationService) journal(event, subjectID, actorID string) {
	if !s.GuildDocument().IsJournalled(models.FeatureVerification) {
		return
	}

	s.Log().Info("Journal entry.", "event", event, "guildId", s.GuildID(), "subjectId", subjectID, "actorId", actorID)
}

func (s *VerificationService) handleOpenInquiry(interaction *collectors.Interaction) {
	if len(interaction.Metadata) < 2 {
		return
	}

	if s.tickets == nil {
		s.Warn(interaction, "Failed to open inquiry", "Tickets are not enabled on this server.")
		return
	}

	document, ok := s.Document(interaction.Metadata[1])
	if !ok {
		return
	}

	request, ok := document.(*models.EntryRequest)
	if !ok || request.TicketChannelID != "" {
		return
	}

	author, err := s.Messenger().User(request.AuthorID)
	if err != nil || author == nil {
		s.Warn(interaction, "Failed to open inquiry", "The author of this entry request could not be found.")
		return
	}

	ticket, err := s.tickets.OpenTicket(author, models.TicketInquiry, models.TicketFormData{
		Topic: "Inquiry regarding " + author.Username,
	})
	if err != nil {
		s.Log().Warn("Failed to open an inquiry ticket.", "partialId", request.PartialID(), "error", err)
		s.Warn(interaction, "Failed to open inquiry", "The inquiry channel could not be created.")
		return
	}

	request.TicketChannelID = ticket.ChannelID
	if err := s.store.Store(request.ID(), request); err != nil {
		s.Log().Error("Failed to store an entry request.", "partialId", request.PartialID(), "error", err)
	}

	// Delete the prompt so the rebuilt one no longer offers the inquiry
	// button.
	if prompt, ok := s.Prompt(request.PartialID()); ok {
		if err := s.Messenger().DeleteMessage(prompt.ChannelID, prompt.ID); err != nil {
			s.Log().Warn("Failed to delete a prompt.", "messageId", prompt.ID, "error", err)
		}
	}

	s.Notice(interaction, "Inquiry opened", "An inquiry channel has been opened for this entry request.")
}

type voteTally struct {
	required  int
	remaining int
}

type voteInformation struct {
	acceptance voteTally
	rejection  voteTally
}

// voteInformation computes how many votes each verdict requires and how many
// are still missing, from the number of eligible voters and the guild's
// verdict rules. It reports false when voting is not configured.
func (s *VerificationService) voteInformation(request *models.EntryRequest) (voteInformation, bool) {
	configuration, err := s.GuildDocument().Feature(models.FeatureVerification)
	if err != nil || configuration.Voting == nil {
		return voteInformation{}, false
	}
	voting := configuration.Voting

	members, err := s.Messenger().GuildMembers(s.GuildID())
	if err != nil {
		s.Log().Warn("Failed to fetch guild members.", "guildId", s.GuildID(), "error", err)
		return voteInformation{}, false
	}

	voterCount := 0
	for _, member := range members {
		if member.User == nil || member.User.Bot {
			continue
		}

		if isEligibleVoter(member, voting) {
			voterCount++
		}
	}

	return voteInformation{
		acceptance: tally(voting.Verdict.Acceptance, voterCount, len(request.VotersFor)),
		rejection:  tally(voting.Verdict.Rejection, voterCount, len(request.VotersAgainst)),
	}, true
}

func isEligibleVoter(member *discordgo.Member, voting *models.VotingConfig) bool {
	for _, userID := range voting.Users {
		if member.User.ID == userID {
			return true
		}
	}

	for _, roleID := range member.Roles {
		for _, votingRoleID := range voting.Roles {
			if roleID == votingRoleID {
				return true
			}
		}
	}

	return false
}

// tally applies a verdict rule. A fraction rule is relative to the eligible
// voter count, a number rule is absolute; at least one vote is always
// required.
func tally(rule models.VerdictRule, voterCount, votes int) voteTally {
	var required int
	switch rule.Type {
	case "fraction":
		required = int(math.Ceil(rule.Value * float64(voterCount)))
	case "number":
		required = int(rule.Value)
	}
	if required < 1 {
		required = 1
	}

	remaining := required - votes
	if remaining < 0 {
		remaining = 0
	}

	return voteTally{required: required, remaining: remaining}
}

func voteButtonLabel(action string, remaining int) string {
	if remaining == 1 {
		return action
	}

	return fmt.Sprintf("%s (%d more needed)", action, remaining)
}

func voterList(voterIDs []string) string {
	if len(voterIDs) == 0 {
		return "*None yet*"
	}

	mentions := make([]string, 0, len(voterIDs))
	for _, voterID := range voterIDs {
		mentions = append(mentions, "<@"+voterID+">")
	}

	return strings.Join(mentions, "\n")
}
