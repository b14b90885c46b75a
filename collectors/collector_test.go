package collectors

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorDispatchesToCallback(t *testing.T) {
	collector := NewCollector(CollectorOptions{})

	var received []any
	collector.OnCollect(func(event any) {
		received = append(received, event)
	})

	collector.DispatchCollect("first")
	collector.DispatchCollect("second")

	assert.Equal(t, []any{"first", "second"}, received)
}

func TestCollectorSingleShotClosesAfterFirstDispatch(t *testing.T) {
	collector := NewCollector(CollectorOptions{IsSingle: true})

	calls := 0
	collector.OnCollect(func(any) { calls++ })

	collector.DispatchCollect("first")
	collector.DispatchCollect("second")

	assert.Equal(t, 1, calls)

	select {
	case <-collector.Done():
	default:
		t.Fatal("expected the collector to have closed")
	}
}

func TestCollectorSingleShotDispatchesOnceUnderConcurrency(t *testing.T) {
	collector := NewCollector(CollectorOptions{IsSingle: true})

	var calls atomic.Int32
	release := make(chan struct{})
	collector.OnCollect(func(any) {
		calls.Add(1)
		// Hold the callback open so a losing dispatch cannot rely on the
		// winner having already closed the collector.
		<-release
	})

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			collector.DispatchCollect("press")
		}()
	}

	close(start)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())

	select {
	case <-collector.Done():
	default:
		t.Fatal("expected the collector to have closed")
	}
}

func TestCollectorCloseIsIdempotent(t *testing.T) {
	collector := NewCollector(CollectorOptions{})

	doneCalls := 0
	collector.OnDone(func() { doneCalls++ })

	collector.Close()
	collector.Close()
	collector.Close()

	assert.Equal(t, 1, doneCalls)
}

func TestCollectorDoesNotDispatchAfterClose(t *testing.T) {
	collector := NewCollector(CollectorOptions{})

	calls := 0
	collector.OnCollect(func(any) { calls++ })

	collector.Close()
	collector.DispatchCollect("late")

	assert.Zero(t, calls)
}

func TestCollectorOnDoneFirstRegistrationWins(t *testing.T) {
	collector := NewCollector(CollectorOptions{})

	ran := ""
	collector.OnDone(func() { ran = "first" })
	collector.OnDone(func() { ran = "second" })

	collector.Close()

	assert.Equal(t, "first", ran)
}

func TestCollectorClosesWhenDependencyCloses(t *testing.T) {
	parent := NewCollector(CollectorOptions{})
	child := NewCollector(CollectorOptions{DependsOn: parent})
	child.Initialise()

	parent.Close()

	select {
	case <-child.Done():
	case <-time.After(time.Second):
		t.Fatal("expected the dependent collector to close")
	}
}

func TestCollectorDependencyIsOneDirectional(t *testing.T) {
	parent := NewCollector(CollectorOptions{})
	child := NewCollector(CollectorOptions{DependsOn: parent})
	child.Initialise()

	child.Close()

	select {
	case <-parent.Done():
		t.Fatal("closing the dependent collector must not close its dependency")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCollectorRemoveAfterExpires(t *testing.T) {
	collector := NewCollector(CollectorOptions{RemoveAfter: 20 * time.Millisecond})
	collector.Initialise()

	select {
	case <-collector.Done():
	case <-time.After(time.Second):
		t.Fatal("expected the collector to expire")
	}
}

func TestCollectorFilterDefaultsToAcceptingEverything(t *testing.T) {
	collector := NewCollector(CollectorOptions{})
	require.True(t, collector.Filter("anything"))

	rejecting := NewCollector(CollectorOptions{Filter: func(any) bool { return false }})
	require.False(t, rejecting.Filter("anything"))
}
