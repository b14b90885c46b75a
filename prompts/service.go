package prompts

import (
	"fmt"
	"sync"

	"rost/collectors"
	"rost/events"
	"rost/interfaces"
	"rost/models"

	"github.com/bwmarrin/discordgo"
)

// DeleteMode selects what an authorised removal means for a prompt type, and
// with it the wording of the rejection shown to unauthorised users.
type DeleteMode string

const (
	DeleteModeDelete DeleteMode = "delete"
	DeleteModeClose  DeleteMode = "close"
	DeleteModeNone   DeleteMode = "none"
)

// Document is a persisted record a prompt message represents.
type Document interface {
	// PartialID identifies the document within its collection. It is the
	// invariant key every prompt binding is registered under.
	PartialID() string
	// OwnerID is the identity of the user the document belongs to.
	OwnerID() string
}

// Outcome is what a domain's interaction handler decided.
type Outcome int

const (
	// OutcomeNone: the interaction was rejected or redundant; no state
	// changes and the prompt stays up.
	OutcomeNone Outcome = iota
	// OutcomeUpdated: the document changed; the binding stays and the
	// prompt is re-rendered.
	OutcomeUpdated
	// OutcomeResolved: the document is fully resolved or removed; the
	// binding is torn down.
	OutcomeResolved
)

// Domain supplies the parts of a prompt service that differ per prompt type:
// loading its documents, rendering them, resolving interactions against
// them, and deleting them.
type Domain interface {
	LoadDocuments() (map[string]Document, error)
	// PromptContent renders a document into a message. Returning nil
	// declines to render, e.g. when required configuration is missing.
	PromptContent(owner *discordgo.User, document Document) *MessageContent
	NoPromptsContent() *MessageContent
	HandleInteraction(interaction *collectors.Interaction) (Document, Outcome)
	DeleteDocument(document Document) error
}

// Deps are the collaborators every prompt service shares.
type Deps struct {
	Log       interfaces.Logger
	Messenger Messenger
	Events    *events.Store
	GuildID   string
	// Guild returns the guild's configuration document.
	Guild   func() *models.GuildDocument
	Locales collectors.LocaleResolver
}

// Service is the generic lifecycle manager for one guild's prompts of one
// type. It reconciles persisted documents against the messages currently in
// the configured channel at startup, rebuilds missing prompts, deletes
// orphaned or tampered ones, and routes button presses back to per-document
// handlers through metadata embedded invisibly in each message.
type Service struct {
	deps       Deps
	domain     Domain
	promptType string
	deleteMode DeleteMode

	mu                 sync.Mutex
	running            bool
	channelID          string
	documents          map[string]Document
	promptByPartialID  map[string]*discordgo.Message
	documentByPromptID map[string]Document
	userIDByPromptID   map[string]string
	handlerByPartialID map[string]func(*collectors.Interaction)
	noPromptsMessage   *discordgo.Message

	magicButton    *collectors.InteractionCollector
	removeButton   *collectors.InteractionCollector
	messageUpdates *collectors.Collector
	messageDeletes *collectors.Collector
}

// NewService builds a prompt service. The prompt type doubles as the magic
// button's stable base custom ID, so every prompt of this type on every
// guild routes through the same collector instance of its service.
func NewService(deps Deps, promptType string, deleteMode DeleteMode, domain Domain) *Service {
	return &Service{
		deps:               deps,
		domain:             domain,
		promptType:         promptType,
		deleteMode:         deleteMode,
		documents:          map[string]Document{},
		promptByPartialID:  map[string]*discordgo.Message{},
		documentByPromptID: map[string]Document{},
		userIDByPromptID:   map[string]string{},
		handlerByPartialID: map[string]func(*collectors.Interaction){},
	}
}

func (s *Service) Type() string {
	return s.promptType
}

func (s *Service) GuildID() string {
	return s.deps.GuildID
}

func (s *Service) Log() interfaces.Logger {
	return s.deps.Log
}

func (s *Service) Messenger() Messenger {
	return s.deps.Messenger
}

func (s *Service) Events() *events.Store {
	return s.deps.Events
}

func (s *Service) GuildDocument() *models.GuildDocument {
	return s.deps.Guild()
}

// ChannelID is the channel this service manages, resolved from the guild's
// feature configuration.
func (s *Service) ChannelID() (string, error) {
	configuration, err := s.deps.Guild().Feature(s.promptType)
	if err != nil {
		return "", err
	}

	return configuration.ChannelID, nil
}

// MagicButtonID encodes a custom ID routed to the per-document interaction
// handlers.
func (s *Service) MagicButtonID(metadata ...string) string {
	return s.magicButton.EncodeID(metadata...)
}

// RemoveButtonID encodes a custom ID routed to the authorised-removal
// handler.
func (s *Service) RemoveButtonID(partialID string) string {
	return s.removeButton.EncodeID(partialID)
}

// Document returns the currently-bound document with the given partial ID.
func (s *Service) Document(partialID string) (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	document, ok := s.documents[partialID]
	return document, ok
}

// Documents returns a snapshot of the currently-bound documents.
func (s *Service) Documents() map[string]Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[string]Document, len(s.documents))
	for partialID, document := range s.documents {
		snapshot[partialID] = document
	}
	return snapshot
}

// Prompt returns the live prompt message for the given partial ID.
func (s *Service) Prompt(partialID string) (*discordgo.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prompt, ok := s.promptByPartialID[partialID]
	return prompt, ok
}

// Start loads this guild's documents, reconciles them against the messages
// currently in the configured channel, then begins listening for tampering
// and for prompt interactions. The reconciliation pass runs to completion
// before any live traffic is accepted.
func (s *Service) Start() error {
	channelID, err := s.ChannelID()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("prompt service %q is already running on guild %s", s.promptType, s.deps.GuildID)
	}
	s.running = true
	s.channelID = channelID
	s.magicButton = collectors.NewInteractionCollector(collectors.InteractionCollectorOptions{
		CustomID:    s.promptType,
		IsPermanent: true,
		Locales:     s.deps.Locales,
		Log:         s.deps.Log,
	})
	s.removeButton = collectors.NewInteractionCollector(collectors.InteractionCollectorOptions{
		GuildID:     s.deps.GuildID,
		CustomID:    collectors.EncodeCustomID("removePrompt", s.promptType),
		IsPermanent: true,
		Locales:     s.deps.Locales,
		Log:         s.deps.Log,
	})
	s.messageUpdates = collectors.NewCollector(collectors.CollectorOptions{GuildID: s.deps.GuildID})
	s.messageDeletes = collectors.NewCollector(collectors.CollectorOptions{GuildID: s.deps.GuildID})
	s.mu.Unlock()

	if err := s.restoreDocuments(); err != nil {
		return err
	}

	existing, err := s.existingPrompts(channelID)
	if err != nil {
		return err
	}

	if existing.noPrompts != nil {
		s.registerNoPromptsMessage(existing.noPrompts)
	}

	expired := s.restoreStateForValidPrompts(existing.valid)
	s.deleteInvalidPrompts(append(existing.invalid, expired...))

	if existing.noPrompts == nil {
		s.tryPostNoPromptsMessage()
	}

	s.messageUpdates.OnCollect(s.handleMessageUpdate)
	s.messageDeletes.OnCollect(s.handleMessageDelete)
	s.magicButton.OnInteraction(s.handleMagicButtonPress)
	s.removeButton.OnInteraction(s.handlePromptRemove)

	s.deps.Events.RegisterCollector(events.MessageUpdate, s.messageUpdates)
	s.deps.Events.RegisterCollector(events.MessageDelete, s.messageDeletes)
	s.deps.Events.RegisterInteractionCollector(s.magicButton)
	s.deps.Events.RegisterInteractionCollector(s.removeButton)

	return nil
}

// Stop closes all subscriptions and clears the in-memory maps. It is safe to
// call even when Start failed partway.
func (s *Service) Stop() {
	s.mu.Lock()
	running := s.running
	s.running = false
	magicButton, removeButton := s.magicButton, s.removeButton
	messageUpdates, messageDeletes := s.messageUpdates, s.messageDeletes
	s.documents = map[string]Document{}
	s.promptByPartialID = map[string]*discordgo.Message{}
	s.documentByPromptID = map[string]Document{}
	s.userIDByPromptID = map[string]string{}
	s.handlerByPartialID = map[string]func(*collectors.Interaction){}
	s.noPromptsMessage = nil
	s.mu.Unlock()

	if !running {
		return
	}

	messageUpdates.Close()
	messageDeletes.Close()
	magicButton.Close()
	removeButton.Close()
}

// Reconcile re-runs the startup reconciliation pass, the restart-equivalent
// healing used by the periodic sweep.
func (s *Service) Reconcile() error {
	s.Stop()
	return s.Start()
}

func (s *Service) restoreDocuments() error {
	documents, err := s.domain.LoadDocuments()
	if err != nil {
		return err
	}

	s.deps.Log.Info("Restored documents.", "type", s.promptType, "guildId", s.deps.GuildID, "count", len(documents))

	s.mu.Lock()
	for partialID, document := range documents {
		s.documents[partialID] = document
	}
	s.mu.Unlock()

	return nil
}

type existingPrompts struct {
	valid     map[string]*discordgo.Message
	invalid   []*discordgo.Message
	noPrompts *discordgo.Message
}

func (s *Service) existingPrompts(channelID string) (*existingPrompts, error) {
	messages, err := s.deps.Messenger.ChannelMessages(channelID)
	if err != nil {
		return nil, err
	}

	existing := &existingPrompts{valid: map[string]*discordgo.Message{}}
	for _, message := range messages {
		tag, ok := DecodeRecoveryTag(message)
		if !ok {
			existing.invalid = append(existing.invalid, message)
			continue
		}

		if tag == NoPromptsTag {
			// At most one sentinel is valid; extras are stale.
			if existing.noPrompts != nil {
				existing.invalid = append(existing.invalid, message)
				continue
			}

			existing.noPrompts = message
			continue
		}

		// Two prompts claiming the same document: the earlier one is stale.
		if previous, seen := existing.valid[tag]; seen {
			existing.invalid = append(existing.invalid, previous)
		}

		existing.valid[tag] = message
	}

	s.deps.Log.Info("Inspected channel messages.", "type", s.promptType, "channelId", channelID, "count", len(messages))

	if len(existing.invalid) > 0 {
		s.deps.Log.Warn("Some channel messages are not prompts or are invalid.",
			"type", s.promptType, "channelId", channelID, "count", len(existing.invalid))
	}

	return existing, nil
}

// restoreStateForValidPrompts pairs each document with its surviving prompt
// message, resynthesising prompts that went missing while the bot was
// offline. It returns the prompts left unpaired, i.e. orphans whose document
// no longer exists.
func (s *Service) restoreStateForValidPrompts(valid map[string]*discordgo.Message) []*discordgo.Message {
	remaining := make(map[string]*discordgo.Message, len(valid))
	for partialID, prompt := range valid {
		remaining[partialID] = prompt
	}

	for partialID, document := range s.Documents() {
		prompt, ok := remaining[partialID]
		if ok {
			delete(remaining, partialID)
		} else {
			s.deps.Log.Warn("Could not find an existing prompt for a document. Recreating...",
				"type", s.promptType, "partialId", partialID)

			owner, err := s.deps.Messenger.User(document.OwnerID())
			if err != nil || owner == nil {
				// There is no path to ever render this document again.
				s.deps.Log.Warn("Could not resolve the author for a document. Invalidating it.",
					"type", s.promptType, "partialId", partialID, "error", err)

				if err := s.domain.DeleteDocument(document); err != nil {
					s.deps.Log.Warn("Failed to delete an unrenderable document.",
						"partialId", partialID, "error", err)
				}

				s.UnregisterDocument(document)
				continue
			}

			prompt = s.SavePrompt(owner, document)
			if prompt == nil {
				s.deps.Log.Info("Could not create a prompt for a document this cycle. Skipping...",
					"type", s.promptType, "partialId", partialID)
				continue
			}
		}

		s.RegisterPrompt(prompt, document.OwnerID(), document)
		s.RegisterDocument(document)
		s.RegisterHandler(document)
	}

	orphans := make([]*discordgo.Message, 0, len(remaining))
	for _, prompt := range remaining {
		orphans = append(orphans, prompt)
	}

	if len(orphans) > 0 {
		s.deps.Log.Warn("Some prompts no longer have documents.", "type", s.promptType, "count", len(orphans))
	}

	return orphans
}

func (s *Service) deleteInvalidPrompts(prompts []*discordgo.Message) {
	if len(prompts) == 0 {
		return
	}

	s.deps.Log.Warn("Deleting invalid or orphaned prompts...", "type", s.promptType, "count", len(prompts))

	for _, prompt := range prompts {
		if err := s.deps.Messenger.DeleteMessage(prompt.ChannelID, prompt.ID); err != nil {
			s.deps.Log.Warn("Failed to delete an invalid prompt.", "messageId", prompt.ID, "error", err)
		}
	}
}

// handleMessageUpdate detects prompts being changed from the outside, e.g.
// their embed getting deleted. Tampered prompts are deleted so that the
// subsequent delete event converges on the same recovery path as a deletion.
func (s *Service) handleMessageUpdate(event any) {
	message, ok := event.(*discordgo.MessageUpdate)
	if !ok {
		return
	}

	s.mu.Lock()
	channelID := s.channelID
	s.mu.Unlock()

	if message.ChannelID != channelID {
		return
	}

	// The single expected embed is still there; edits to other attributes
	// are allowed.
	if len(message.Embeds) == 1 {
		return
	}

	if err := s.deps.Messenger.DeleteMessage(message.ChannelID, message.ID); err != nil {
		s.deps.Log.Warn("Failed to delete a tampered prompt.",
			"messageId", message.ID, "channelId", message.ChannelID, "error", err)
	}
}

// handleMessageDelete detects prompts being deleted, whether by the
// anti-tamper handler above or by an outside actor, and resynthesises them.
func (s *Service) handleMessageDelete(event any) {
	message, ok := event.(*discordgo.MessageDelete)
	if !ok {
		return
	}

	s.mu.Lock()
	channelID := s.channelID
	noPrompts := s.noPromptsMessage
	document, isPrompt := s.documentByPromptID[message.ID]
	userID := s.userIDByPromptID[message.ID]
	s.mu.Unlock()

	if message.ChannelID != channelID {
		return
	}

	if noPrompts != nil && message.ID == noPrompts.ID {
		s.unregisterNoPromptsMessage()
		s.tryPostNoPromptsMessage()
		return
	}

	if !isPrompt {
		// Lost bookkeeping; self-heal best-effort.
		s.tryPostNoPromptsMessage()
		return
	}

	if userID == "" {
		return
	}

	owner, err := s.deps.Messenger.User(userID)
	if err != nil || owner == nil {
		// The owner is no longer resolvable; the binding is dropped for
		// good.
		s.dropPromptBinding(message.ID)
		return
	}

	prompt := s.SavePrompt(owner, document)
	if prompt == nil {
		return
	}

	s.RegisterPrompt(prompt, userID, document)
	s.dropPromptBinding(message.ID)
	s.tryPostNoPromptsMessage()
}

func (s *Service) dropPromptBinding(promptID string) {
	s.mu.Lock()
	delete(s.documentByPromptID, promptID)
	delete(s.userIDByPromptID, promptID)
	s.mu.Unlock()
}

func (s *Service) handleMagicButtonPress(interaction *collectors.Interaction) {
	if len(interaction.Metadata) < 2 {
		return
	}

	s.mu.Lock()
	handle, ok := s.handlerByPartialID[interaction.Metadata[1]]
	s.mu.Unlock()
	if !ok {
		return
	}

	handle(interaction)
}

func (s *Service) handlePromptRemove(interaction *collectors.Interaction) {
	if len(interaction.Metadata) < 2 || interaction.Member == nil {
		return
	}

	if !s.isAuthorised(interaction.Member, interaction.UserID()) {
		s.rejectRemoval(interaction)
		return
	}

	if err := s.deps.Messenger.Acknowledge(interaction.Interaction); err != nil {
		s.deps.Log.Warn("Failed to acknowledge a prompt removal.", "error", err)
	}

	partialID := interaction.Metadata[1]

	s.mu.Lock()
	prompt, ok := s.promptByPartialID[partialID]
	var document Document
	if ok {
		document = s.documentByPromptID[prompt.ID]
	}
	s.mu.Unlock()

	if document == nil {
		return
	}

	s.HandleDelete(document)
}

func (s *Service) isAuthorised(member *discordgo.Member, userID string) bool {
	management, ok := s.deps.Guild().Managers(s.promptType)
	if !ok {
		return false
	}

	for _, roleID := range member.Roles {
		for _, managerRoleID := range management.Roles {
			if roleID == managerRoleID {
				return true
			}
		}
	}

	for _, managerUserID := range management.Users {
		if userID == managerUserID {
			return true
		}
	}

	return false
}

func (s *Service) rejectRemoval(interaction *collectors.Interaction) {
	var embed *discordgo.MessageEmbed
	switch s.deleteMode {
	case DeleteModeDelete:
		embed = &discordgo.MessageEmbed{
			Title:       "Cannot remove prompt",
			Description: "You do not have permission to remove this prompt.",
			Color:       colourWarning,
		}
	case DeleteModeClose:
		embed = &discordgo.MessageEmbed{
			Title:       "Cannot close issue",
			Description: "You do not have permission to close this issue.",
			Color:       colourWarning,
		}
	default:
		return
	}

	if err := s.deps.Messenger.RespondEphemeral(interaction.Interaction, &MessageContent{
		Embeds: []*discordgo.MessageEmbed{embed},
	}); err != nil {
		s.deps.Log.Warn("Failed to warn about an unauthorised removal.", "error", err)
	}
}

// noPromptsContent renders the sentinel message shared by the concrete
// services. The footer icon has to carry the sentinel recovery tag even when
// the guild icon cannot be resolved, so a default avatar stands in.
func (s *Service) noPromptsContent(title, description string) *MessageContent {
	iconURL := defaultIconURL
	text := title

	guild, err := s.deps.Messenger.Guild(s.deps.GuildID)
	if err == nil {
		if url := guild.IconURL("64"); url != "" {
			iconURL = url
		}
		text = guild.Name
	}

	return &MessageContent{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       title,
				Description: description,
				Color:       colourSuccess,
				Footer: &discordgo.MessageEmbedFooter{
					Text:    text,
					IconURL: EncodeRecoveryTag(iconURL, NoPromptsTag),
				},
			},
		},
	}
}

// Warn shows the invoking user an ephemeral warning embed.
func (s *Service) Warn(interaction *collectors.Interaction, title, description string) {
	s.respond(interaction, title, description, colourWarning)
}

// Notice shows the invoking user an ephemeral informational embed.
func (s *Service) Notice(interaction *collectors.Interaction, title, description string) {
	s.respond(interaction, title, description, colourNeutral)
}

func (s *Service) respond(interaction *collectors.Interaction, title, description string, colour int) {
	err := s.deps.Messenger.RespondEphemeral(interaction.Interaction, &MessageContent{
		Embeds: []*discordgo.MessageEmbed{{Title: title, Description: description, Color: colour}},
	})
	if err != nil {
		s.deps.Log.Warn("Failed to respond to an interaction.", "error", err)
	}
}

// SavePrompt renders and posts a prompt for a document, registering the
// document, prompt and handler bindings on success, and taking down the
// sentinel message if one was showing. It returns nil both when the domain
// declines to render and when sending fails; callers must treat nil as
// "could not create a prompt this cycle".
func (s *Service) SavePrompt(owner *discordgo.User, document Document) *discordgo.Message {
	content := s.domain.PromptContent(owner, document)
	if content == nil {
		return nil
	}

	s.mu.Lock()
	channelID := s.channelID
	s.mu.Unlock()

	prompt, err := s.deps.Messenger.SendMessage(channelID, content)
	if err != nil {
		s.deps.Log.Warn("Failed to send a prompt.", "type", s.promptType, "channelId", channelID, "error", err)
		return nil
	}

	s.RegisterDocument(document)
	s.RegisterPrompt(prompt, owner.ID, document)
	s.RegisterHandler(document)

	s.tryDeleteNoPromptsMessage()

	return prompt
}

// tryPostNoPromptsMessage posts the sentinel message, guarded by a re-check
// that no document currently has a live prompt: a document may have been
// created in the instant between deciding to post and posting.
func (s *Service) tryPostNoPromptsMessage() {
	s.mu.Lock()
	hasPrompts := len(s.documentByPromptID) > 0
	channelID := s.channelID
	s.mu.Unlock()

	if hasPrompts {
		return
	}

	message, err := s.deps.Messenger.SendMessage(channelID, s.domain.NoPromptsContent())
	if err != nil {
		s.deps.Log.Warn("Failed to send the no-prompts message.", "channelId", channelID, "error", err)
		return
	}

	s.registerNoPromptsMessage(message)
}

func (s *Service) tryDeleteNoPromptsMessage() {
	s.mu.Lock()
	noPrompts := s.noPromptsMessage
	hasPrompts := len(s.documentByPromptID) > 0
	s.mu.Unlock()

	if !hasPrompts || noPrompts == nil {
		return
	}

	if err := s.deps.Messenger.DeleteMessage(noPrompts.ChannelID, noPrompts.ID); err != nil {
		s.deps.Log.Warn("Failed to delete the no-prompts message.", "error", err)
	}
}

func (s *Service) registerNoPromptsMessage(message *discordgo.Message) {
	s.mu.Lock()
	s.noPromptsMessage = message
	s.mu.Unlock()
}

func (s *Service) unregisterNoPromptsMessage() {
	s.mu.Lock()
	s.noPromptsMessage = nil
	s.mu.Unlock()
}

// RegisterDocument binds a document under its partial ID. Registering the
// same document twice is idempotent.
func (s *Service) RegisterDocument(document Document) {
	s.mu.Lock()
	s.documents[document.PartialID()] = document
	s.mu.Unlock()
}

func (s *Service) UnregisterDocument(document Document) {
	s.mu.Lock()
	delete(s.documents, document.PartialID())
	s.mu.Unlock()
}

// RegisterPrompt binds a prompt message to a document and its owner.
func (s *Service) RegisterPrompt(prompt *discordgo.Message, userID string, document Document) {
	s.mu.Lock()
	s.promptByPartialID[document.PartialID()] = prompt
	s.documentByPromptID[prompt.ID] = document
	s.userIDByPromptID[prompt.ID] = userID
	s.mu.Unlock()
}

func (s *Service) UnregisterPrompt(prompt *discordgo.Message, document Document) {
	s.mu.Lock()
	delete(s.promptByPartialID, document.PartialID())
	delete(s.documentByPromptID, prompt.ID)
	delete(s.userIDByPromptID, prompt.ID)
	s.mu.Unlock()
}

// RegisterHandler binds the interaction handler for a document. The handler
// resolves the interaction through the domain, then tears the binding down
// or updates it, and finally deletes the displayed prompt: the delete
// event's reconciliation, or an explicit SavePrompt by the domain, posts the
// replacement. The engine does not auto-repost here, so domains can batch
// several document mutations before a re-render.
func (s *Service) RegisterHandler(document Document) {
	partialID := document.PartialID()

	s.mu.Lock()
	s.handlerByPartialID[partialID] = func(interaction *collectors.Interaction) {
		updated, outcome := s.domain.HandleInteraction(interaction)
		if outcome == OutcomeNone {
			return
		}

		s.mu.Lock()
		prompt, ok := s.promptByPartialID[interaction.Metadata[1]]
		s.mu.Unlock()
		if !ok {
			return
		}

		if outcome == OutcomeResolved {
			s.UnregisterDocument(document)
			s.UnregisterPrompt(prompt, document)
			s.UnregisterHandler(document)
		} else {
			s.mu.Lock()
			s.documents[partialID] = updated
			s.documentByPromptID[prompt.ID] = updated
			s.mu.Unlock()
		}

		if err := s.deps.Messenger.DeleteMessage(prompt.ChannelID, prompt.ID); err != nil {
			s.deps.Log.Warn("Failed to delete a prompt.", "messageId", prompt.ID, "error", err)
		}
	}
	s.mu.Unlock()
}

func (s *Service) UnregisterHandler(document Document) {
	s.mu.Lock()
	delete(s.handlerByPartialID, document.PartialID())
	s.mu.Unlock()
}

// HandleDelete removes a document for good: the persisted record, the
// remote prompt message and all three bindings.
func (s *Service) HandleDelete(document Document) {
	if err := s.domain.DeleteDocument(document); err != nil {
		s.deps.Log.Warn("Failed to delete a document.", "partialId", document.PartialID(), "error", err)
	}

	s.mu.Lock()
	prompt, ok := s.promptByPartialID[document.PartialID()]
	s.mu.Unlock()

	if ok {
		if err := s.deps.Messenger.DeleteMessage(prompt.ChannelID, prompt.ID); err != nil {
			s.deps.Log.Warn("Failed to delete a prompt after deleting its document.",
				"messageId", prompt.ID, "error", err)
		}
		s.UnregisterPrompt(prompt, document)
	}

	s.UnregisterDocument(document)
	s.UnregisterHandler(document)
}

const (
	colourSuccess = 0x44aa55
	colourWarning = 0xd8a24a
	colourFailure = 0xbb4444
	colourNeutral = 0x4a5bd8
	colourPending = 0xd8cf4a
)
