package events

import (
	"testing"
	"time"

	"rost/collectors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (nopLogger) Fatal(string, ...any) {}

func awaitEvent(t *testing.T, received <-chan any) any {
	t.Helper()

	select {
	case event := <-received:
		return event
	case <-time.After(time.Second):
		t.Fatal("expected an event to be dispatched")
		return nil
	}
}

func TestStoreDispatchesToRegisteredCollector(t *testing.T) {
	store := NewStore(nopLogger{})

	received := make(chan any, 1)
	collector := collectors.NewCollector(collectors.CollectorOptions{})
	collector.OnCollect(func(event any) { received <- event })

	store.RegisterCollector(MessageDelete, collector)
	store.Collect("guild-1", MessageDelete, "payload")

	assert.Equal(t, "payload", awaitEvent(t, received))
}

func TestStoreScopesDispatchByGuild(t *testing.T) {
	store := NewStore(nopLogger{})

	received := make(chan any, 1)
	collector := collectors.NewCollector(collectors.CollectorOptions{GuildID: "guild-1"})
	collector.OnCollect(func(event any) { received <- event })

	store.RegisterCollector(MessageDelete, collector)

	store.Collect("guild-2", MessageDelete, "wrong guild")
	select {
	case <-received:
		t.Fatal("expected no dispatch for another guild")
	case <-time.After(50 * time.Millisecond):
	}

	store.Collect("guild-1", MessageDelete, "right guild")
	assert.Equal(t, "right guild", awaitEvent(t, received))
}

func TestStoreDoesNotCrossEventKinds(t *testing.T) {
	store := NewStore(nopLogger{})

	received := make(chan any, 1)
	collector := collectors.NewCollector(collectors.CollectorOptions{})
	collector.OnCollect(func(event any) { received <- event })

	store.RegisterCollector(MessageUpdate, collector)
	store.Collect("guild-1", MessageDelete, "payload")

	select {
	case <-received:
		t.Fatal("expected no dispatch for another event kind")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStoreUnregistersClosedCollectors(t *testing.T) {
	store := NewStore(nopLogger{})

	received := make(chan any, 1)
	collector := collectors.NewCollector(collectors.CollectorOptions{})
	collector.OnCollect(func(event any) { received <- event })

	store.RegisterCollector(MessageDelete, collector)
	collector.Close()

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.collectors[MessageDelete]) == 0
	}, time.Second, 10*time.Millisecond)

	store.Collect("guild-1", MessageDelete, "late")
	select {
	case <-received:
		t.Fatal("expected no dispatch after close")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStoreSurvivesPanickingCallback(t *testing.T) {
	store := NewStore(nopLogger{})

	panicking := collectors.NewCollector(collectors.CollectorOptions{})
	panicking.OnCollect(func(any) { panic("boom") })

	received := make(chan any, 1)
	healthy := collectors.NewCollector(collectors.CollectorOptions{})
	healthy.OnCollect(func(event any) { received <- event })

	store.RegisterCollector(MessageDelete, panicking)
	store.RegisterCollector(MessageDelete, healthy)

	store.Collect("guild-1", MessageDelete, "payload")

	assert.Equal(t, "payload", awaitEvent(t, received))
}
