package collectors

import (
	"sync"
	"time"
)

// CollectorOptions configures a new Collector.
type CollectorOptions struct {
	// GuildID restricts the collector to events from a single guild. Empty
	// accepts events from anywhere.
	GuildID string
	// IsSingle closes the collector after its first successful dispatch.
	IsSingle bool
	// RemoveAfter closes the collector automatically once the duration has
	// elapsed. Zero disables the timeout.
	RemoveAfter time.Duration
	// DependsOn closes this collector when the referenced collector closes.
	// The dependency is one-directional: closing this collector does not
	// close the one it depends on.
	DependsOn *Collector
	// Filter rejects events before they reach the collect callback. Nil
	// accepts everything.
	Filter func(event any) bool
}

// A Collector is a cancellable subscription to a stream of gateway events.
// Once closed it never dispatches again and never re-opens; every collector
// must eventually close, whether by timeout, explicitly, or through its
// dependency closing.
type Collector struct {
	guildID     string
	isSingle    bool
	removeAfter time.Duration
	dependsOn   *Collector
	filter      func(event any) bool

	mu        sync.Mutex
	onCollect func(event any)
	onDone    func()
	isClosed  bool
	claimed   bool
	timer     *time.Timer

	done chan struct{}
}

func NewCollector(options CollectorOptions) *Collector {
	return &Collector{
		guildID:     options.GuildID,
		isSingle:    options.IsSingle,
		removeAfter: options.RemoveAfter,
		dependsOn:   options.DependsOn,
		filter:      options.Filter,
		done:        make(chan struct{}),
	}
}

// Done is closed exactly once, when the collector closes.
func (c *Collector) Done() <-chan struct{} {
	return c.done
}

func (c *Collector) GuildID() string {
	return c.guildID
}

// Initialise arms the removal timer and the dependency watch. Called once,
// by the event store, at registration time.
func (c *Collector) Initialise() {
	if c.removeAfter > 0 {
		c.mu.Lock()
		if !c.isClosed {
			c.timer = time.AfterFunc(c.removeAfter, c.Close)
		}
		c.mu.Unlock()
	}

	if c.dependsOn != nil {
		go func() {
			<-c.dependsOn.Done()
			c.Close()
		}()
	}
}

// Filter reports whether an event should be dispatched to this collector.
func (c *Collector) Filter(event any) bool {
	if c.filter == nil {
		return true
	}

	return c.filter(event)
}

// DispatchCollect invokes the collect callback with the event. It is a no-op
// once the collector has closed. Single-shot collectors claim the dispatch
// while still holding the lock, so concurrent events cannot both reach the
// callback; the winner closes the collector after the callback returns.
func (c *Collector) DispatchCollect(event any) {
	c.mu.Lock()
	if c.isClosed || c.claimed {
		c.mu.Unlock()
		return
	}
	if c.isSingle {
		c.claimed = true
	}
	onCollect := c.onCollect
	c.mu.Unlock()

	if onCollect != nil {
		onCollect(event)
	}

	if c.isSingle {
		c.Close()
	}
}

// Close transitions the collector to closed exactly once, runs the done
// callback and releases held callback references. Safe to call repeatedly
// and concurrently.
func (c *Collector) Close() {
	c.mu.Lock()
	if c.isClosed {
		c.mu.Unlock()
		return
	}
	c.isClosed = true
	onDone := c.onDone
	c.onCollect = nil
	c.onDone = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	if onDone != nil {
		onDone()
	}
	close(c.done)
}

// OnCollect registers the collect callback.
func (c *Collector) OnCollect(callback func(event any)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed {
		return
	}

	c.onCollect = callback
}

// OnDone registers the cleanup callback. The first registration wins;
// subsequent calls are ignored so that cleanup logic attached by one
// component cannot be overwritten silently by another.
func (c *Collector) OnDone(callback func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed || c.onDone != nil {
		return
	}

	c.onDone = callback
}
