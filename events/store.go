package events

import (
	"sync"

	"rost/collectors"
	"rost/interfaces"

	"github.com/bwmarrin/discordgo"
)

// Event kinds collectors can subscribe to.
const (
	InteractionCreate = "interactionCreate"
	MessageCreate     = "messageCreate"
	MessageUpdate     = "messageUpdate"
	MessageDelete     = "messageDelete"
	GuildCreate       = "guildCreate"
	GuildDelete       = "guildDelete"
	GuildMemberAdd    = "guildMemberAdd"
	GuildMemberRemove = "guildMemberRemove"
	GuildBanAdd       = "guildBanAdd"
	GuildBanRemove    = "guildBanRemove"
)

// Store is the process-wide event dispatcher. It receives every raw gateway
// event once and fans it out to the registered collectors whose filters
// match. There is no buffering: an event delivered before a collector
// registers is lost to that collector.
type Store struct {
	log interfaces.Logger

	mu         sync.Mutex
	collectors map[string][]*collectors.Collector
}

func NewStore(log interfaces.Logger) *Store {
	return &Store{
		log:        log,
		collectors: make(map[string][]*collectors.Collector),
	}
}

// RegisterCollector adds the collector to the registry for an event kind,
// arms its timeout and dependency watchers, and schedules automatic
// de-registration once the collector closes.
func (s *Store) RegisterCollector(event string, collector *collectors.Collector) {
	s.log.Info("Registering collector.", "event", event)

	s.mu.Lock()
	s.collectors[event] = append(s.collectors[event], collector)
	s.mu.Unlock()

	collector.Initialise()

	go func() {
		<-collector.Done()
		s.unregisterCollector(event, collector)
	}()
}

// RegisterInteractionCollector registers a collector under the
// interaction-create event kind.
func (s *Store) RegisterInteractionCollector(collector *collectors.InteractionCollector) {
	s.RegisterCollector(InteractionCreate, collector.Collector)
}

func (s *Store) unregisterCollector(event string, collector *collectors.Collector) {
	s.mu.Lock()
	defer s.mu.Unlock()

	registered := s.collectors[event]
	for index, candidate := range registered {
		if candidate == collector {
			s.collectors[event] = append(registered[:index:index], registered[index+1:]...)
			return
		}
	}
}

// Collect fans a raw event out to every matching collector, in registration
// order. Each dispatch runs on its own goroutine: a slow or failing callback
// must not block delivery to the remaining collectors or to later events.
func (s *Store) Collect(guildID string, event string, payload any) {
	s.mu.Lock()
	registered := make([]*collectors.Collector, len(s.collectors[event]))
	copy(registered, s.collectors[event])
	s.mu.Unlock()

	for _, collector := range registered {
		if collector.GuildID() != "" && collector.GuildID() != guildID {
			continue
		}

		if !collector.Filter(payload) {
			continue
		}

		go s.dispatch(collector, payload)
	}
}

func (s *Store) dispatch(collector *collectors.Collector, payload any) {
	defer func() {
		if recovered := recover(); recovered != nil {
			s.log.Error("Collector callback panicked.", "panic", recovered)
		}
	}()

	collector.DispatchCollect(payload)
}

// BindHandlers attaches the store to a Discord session, so that every raw
// gateway event the bot cares about flows through Collect exactly once.
func (s *Store) BindHandlers(session *discordgo.Session) {
	session.AddHandler(func(_ *discordgo.Session, event *discordgo.InteractionCreate) {
		s.Collect(event.GuildID, InteractionCreate, event)
	})
	session.AddHandler(func(_ *discordgo.Session, event *discordgo.MessageCreate) {
		s.Collect(event.GuildID, MessageCreate, event)
	})
	session.AddHandler(func(_ *discordgo.Session, event *discordgo.MessageUpdate) {
		s.Collect(event.GuildID, MessageUpdate, event)
	})
	session.AddHandler(func(_ *discordgo.Session, event *discordgo.MessageDelete) {
		s.Collect(event.GuildID, MessageDelete, event)
	})
	session.AddHandler(func(_ *discordgo.Session, event *discordgo.GuildCreate) {
		s.Collect(event.ID, GuildCreate, event)
	})
	session.AddHandler(func(_ *discordgo.Session, event *discordgo.GuildDelete) {
		s.Collect(event.ID, GuildDelete, event)
	})
	session.AddHandler(func(_ *discordgo.Session, event *discordgo.GuildMemberAdd) {
		s.Collect(event.GuildID, GuildMemberAdd, event)
	})
	session.AddHandler(func(_ *discordgo.Session, event *discordgo.GuildMemberRemove) {
		s.Collect(event.GuildID, GuildMemberRemove, event)
	})
	session.AddHandler(func(_ *discordgo.Session, event *discordgo.GuildBanAdd) {
		s.Collect(event.GuildID, GuildBanAdd, event)
	})
	session.AddHandler(func(_ *discordgo.Session, event *discordgo.GuildBanRemove) {
		s.Collect(event.GuildID, GuildBanRemove, event)
	})
}
