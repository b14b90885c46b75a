package bot

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"rost/collectors"
	"rost/config"
	"rost/events"
	"rost/interfaces"
	"rost/models"
	"rost/prompts"
	"rost/storage"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
)

// promptService is the lifecycle every prompt service exposes.
type promptService interface {
	Type() string
	Start() error
	Stop()
	Reconcile() error
}

// Bot wires the Discord session, the document store, the event dispatcher
// and the per-guild prompt services together.
type Bot struct {
	log       interfaces.Logger
	session   *discordgo.Session
	store     *storage.DBStore
	events    *events.Store
	messenger *SessionMessenger
	locales   collectors.LocaleResolver
	scheduler *cron.Cron
	startTime time.Time

	mu           sync.Mutex
	guilds       map[string]*models.GuildDocument
	services     map[string][]promptService
	reports      map[string]*prompts.ReportsService
	suggestions  map[string]*prompts.SuggestionsService
	resources    map[string]*prompts.ResourcesService
	tickets      map[string]*prompts.TicketsService
	verification map[string]*prompts.VerificationService

	commandHandlers map[string]func(*collectors.Interaction)
}

// New creates a Bot from the loaded configuration.
func New(log interfaces.Logger) (*Bot, error) {
	token := config.Cfg.Discord.Token
	if token == "" {
		log.Fatal("The Discord bot token is not set. Check config.yaml.")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.State = discordgo.NewState()
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentGuildModeration
	// Gateway events are handled in arrival order; the reconciliation logic
	// relies on updates preceding deletes for the same message.
	session.SyncEvents = true

	store, err := storage.NewDBStore(config.Cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		log:             log,
		session:         session,
		store:           store,
		events:          events.NewStore(log),
		messenger:       NewSessionMessenger(session),
		scheduler:       cron.New(),
		startTime:       time.Now(),
		guilds:          map[string]*models.GuildDocument{},
		services:        map[string][]promptService{},
		reports:         map[string]*prompts.ReportsService{},
		suggestions:     map[string]*prompts.SuggestionsService{},
		resources:       map[string]*prompts.ResourcesService{},
		tickets:         map[string]*prompts.TicketsService{},
		verification:    map[string]*prompts.VerificationService{},
		commandHandlers: map[string]func(*collectors.Interaction){},
	}
	bot.locales = sessionLocaleResolver{session: session}

	return bot, nil
}

// Start connects to Discord and blocks until the process is signalled to
// shut down.
func (b *Bot) Start() error {
	b.events.BindHandlers(b.session)

	guildCreates := collectors.NewCollector(collectors.CollectorOptions{})
	guildCreates.OnCollect(b.handleGuildCreate)
	b.events.RegisterCollector(events.GuildCreate, guildCreates)

	guildDeletes := collectors.NewCollector(collectors.CollectorOptions{})
	guildDeletes.OnCollect(b.handleGuildDelete)
	b.events.RegisterCollector(events.GuildDelete, guildDeletes)

	b.registerCommands()
	b.registerEntryButton()

	if err := b.session.Open(); err != nil {
		return err
	}
	defer b.session.Close()
	defer b.store.Close()

	definitions := commandDefinitions()
	if _, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, "", definitions); err != nil {
		b.log.Fatal("Failed to register application commands.", "error", err)
	}

	if config.Cfg.ReconcileSchedule != "" {
		if _, err := b.scheduler.AddFunc(config.Cfg.ReconcileSchedule, b.reconcileAll); err != nil {
			b.log.Error("Failed to schedule the reconciliation sweep.", "error", err)
		}
	}
	b.scheduler.Start()
	defer b.scheduler.Stop()

	b.log.Info("The bot is now running. Press CTRL-C to exit.")

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-interrupts

	b.log.Info("Shutting down...")
	b.stopAllServices()

	return nil
}

// Store exposes the document store for collaborators such as the status
// server.
func (b *Bot) Store() *storage.DBStore {
	return b.store
}

// Status is what the status server reports.
func (b *Bot) Status() map[string]any {
	b.mu.Lock()
	guildCount := len(b.guilds)
	serviceCount := 0
	for _, services := range b.services {
		serviceCount += len(services)
	}
	b.mu.Unlock()

	return map[string]any{
		"uptime":   time.Since(b.startTime).String(),
		"guilds":   guildCount,
		"services": serviceCount,
	}
}

func (b *Bot) handleGuildCreate(event any) {
	guildCreate, ok := event.(*discordgo.GuildCreate)
	if !ok {
		return
	}

	b.setupGuild(guildCreate.ID)
}

func (b *Bot) handleGuildDelete(event any) {
	guildDelete, ok := event.(*discordgo.GuildDelete)
	if !ok {
		return
	}

	b.teardownGuild(guildDelete.ID)
}

// setupGuild loads or creates the guild's configuration document and starts
// a prompt service for each enabled feature. Joining a guild the bot is
// already on restarts its services, which doubles as reconciliation after a
// gateway resume.
func (b *Bot) setupGuild(guildID string) {
	document, err := b.loadGuildDocument(guildID)
	if err != nil {
		b.log.Error("Failed to load a guild document.", "guildId", guildID, "error", err)
		return
	}

	b.teardownGuild(guildID)

	b.mu.Lock()
	b.guilds[guildID] = document
	b.mu.Unlock()

	deps := prompts.Deps{
		Log:       b.log,
		Messenger: b.messenger,
		Events:    b.events,
		GuildID:   guildID,
		Guild:     func() *models.GuildDocument { return b.guildDocument(guildID) },
		Locales:   b.locales,
	}

	var services []promptService

	var tickets *prompts.TicketsService
	if document.HasEnabled(models.FeatureTickets) {
		tickets = prompts.NewTicketsService(deps, b.store)
		services = append(services, tickets)
	}
	if document.HasEnabled(models.FeatureVerification) {
		verification := prompts.NewVerificationService(deps, b.store, tickets)
		services = append(services, verification)

		b.mu.Lock()
		b.verification[guildID] = verification
		b.mu.Unlock()
	}
	if document.HasEnabled(models.FeatureReports) {
		reports := prompts.NewReportsService(deps, b.store)
		services = append(services, reports)

		b.mu.Lock()
		b.reports[guildID] = reports
		b.mu.Unlock()
	}
	if document.HasEnabled(models.FeatureSuggestions) {
		suggestions := prompts.NewSuggestionsService(deps, b.store)
		services = append(services, suggestions)

		b.mu.Lock()
		b.suggestions[guildID] = suggestions
		b.mu.Unlock()
	}
	if document.HasEnabled(models.FeatureResources) {
		resources := prompts.NewResourcesService(deps, b.store)
		services = append(services, resources)

		b.mu.Lock()
		b.resources[guildID] = resources
		b.mu.Unlock()
	}

	if tickets != nil {
		b.mu.Lock()
		b.tickets[guildID] = tickets
		b.mu.Unlock()
	}

	started := services[:0]
	for _, service := range services {
		if err := service.Start(); err != nil {
			b.log.Error("Failed to start a prompt service.",
				"type", service.Type(), "guildId", guildID, "error", err)
			continue
		}

		started = append(started, service)
	}

	b.mu.Lock()
	b.services[guildID] = started
	b.mu.Unlock()

	b.log.Info("Guild set up.", "guildId", guildID, "services", len(started))
}

func (b *Bot) teardownGuild(guildID string) {
	b.mu.Lock()
	services := b.services[guildID]
	delete(b.services, guildID)
	delete(b.guilds, guildID)
	delete(b.reports, guildID)
	delete(b.suggestions, guildID)
	delete(b.resources, guildID)
	delete(b.tickets, guildID)
	delete(b.verification, guildID)
	b.mu.Unlock()

	for _, service := range services {
		service.Stop()
	}
}

func (b *Bot) stopAllServices() {
	b.mu.Lock()
	guildIDs := make([]string, 0, len(b.services))
	for guildID := range b.services {
		guildIDs = append(guildIDs, guildID)
	}
	b.mu.Unlock()

	for _, guildID := range guildIDs {
		b.teardownGuild(guildID)
	}
}

// reconcileAll re-runs every service's startup reconciliation pass,
// restart-equivalent healing on a schedule.
func (b *Bot) reconcileAll() {
	b.mu.Lock()
	all := make([]promptService, 0)
	for _, services := range b.services {
		all = append(all, services...)
	}
	b.mu.Unlock()

	b.log.Info("Running the reconciliation sweep.", "services", len(all))

	for _, service := range all {
		if err := service.Reconcile(); err != nil {
			b.log.Error("Failed to reconcile a prompt service.", "type", service.Type(), "error", err)
		}
	}
}

func (b *Bot) guildDocument(guildID string) *models.GuildDocument {
	b.mu.Lock()
	defer b.mu.Unlock()

	if document, ok := b.guilds[guildID]; ok {
		return document
	}

	return models.NewGuildDocument(guildID)
}

// loadGuildDocument fetches the guild's configuration document, creating an
// empty one on first contact.
func (b *Bot) loadGuildDocument(guildID string) (*models.GuildDocument, error) {
	document := models.NewGuildDocument(guildID)

	found, err := b.store.Load(document.ID(), document)
	if err != nil {
		return nil, err
	}

	if !found {
		if err := b.store.Store(document.ID(), document); err != nil {
			return nil, err
		}

		b.log.Info("Created a guild document.", "guildId", guildID)
	}

	return document, nil
}

// sessionLocaleResolver resolves response locales from the guild's preferred
// locale, falling back to the default. Interactions that arrive without a
// guild ID, e.g. from a thread or direct message, are scoped through their
// channel instead.
type sessionLocaleResolver struct {
	session *discordgo.Session
}

func (r sessionLocaleResolver) ResolveLocales(guildID, channelID string) (string, string) {
	if guildID == "" && channelID != "" {
		if channel, err := r.session.State.Channel(channelID); err == nil {
			guildID = channel.GuildID
		}
	}

	if guild, err := r.session.State.Guild(guildID); err == nil && guild.PreferredLocale != "" {
		return guild.PreferredLocale, guild.PreferredLocale
	}

	return collectors.DefaultLocale, collectors.DefaultLocale
}
