package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type finished struct {
	Economy int
	Score   int
}

func TestTypedBusPublishSubscribe(t *testing.T) {
	bus := NewTyped[finished]()
	ch := bus.Subscribe()
	bus.Publish(finished{Economy: 1, Score: 9})
	v := <-ch
	assert.Equal(t, finished{Economy: 1, Score: 9}, v)
	bus.Unsubscribe(ch)
	_, ok := <-ch
	assert.False(t, ok, "unsubscribe closes the channel")
}

func TestBusCarriesAnyEvent(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Publish(finished{Economy: 2})
	ev := <-ch
	f, ok := ev.(finished)
	require.True(t, ok)
	assert.Equal(t, 2, f.Economy)
}

func TestTypedBusDropsWhenFull(t *testing.T) {
	bus := NewTypedBuffered[int](2)
	ch := bus.Subscribe()
	for i := 0; i < 5; i++ {
		bus.Publish(i)
	}
	assert.Equal(t, int64(3), bus.Dropped())
	assert.Equal(t, 0, <-ch)
	assert.Equal(t, 1, <-ch)
}

func TestTypedBusClose(t *testing.T) {
	bus := NewTyped[int]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	_, ok := <-ch1
	assert.False(t, ok)
	_, ok = <-ch2
	assert.False(t, ok)

	bus.Publish(1)
	late := bus.Subscribe()
	_, ok = <-late
	assert.False(t, ok, "subscribing to a closed bus yields a closed channel")
	bus.Close()
}

func TestTypedBusUnsubscribeAfterClose(t *testing.T) {
	bus := NewTyped[float64]()
	ch := bus.Subscribe()
	bus.Close()
	assert.NotPanics(t, func() { bus.Unsubscribe(ch) })
}

func TestNegativeBuffer(t *testing.T) {
	bus := NewTypedBuffered[int](-3)
	ch := bus.Subscribe()
	bus.Publish(1)
	assert.Equal(t, int64(1), bus.Dropped())
	bus.Unsubscribe(ch)
}
