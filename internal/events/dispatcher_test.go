// internal/events/dispatcher_test.go
package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tokita/tokita-backend/internal/models"
)

func orderEvent(number string) OrderCreated {
	return OrderCreated{Order: models.Order{OrderNumber: number}}
}

func TestDispatcherDeliversToAllSubscribers(t *testing.T) {
	dispatcher := NewDispatcher(8)

	var mu sync.Mutex
	var first, second []string

	dispatcher.Subscribe(func(e OrderCreated) {
		mu.Lock()
		first = append(first, e.Order.OrderNumber)
		mu.Unlock()
	})
	dispatcher.Subscribe(func(e OrderCreated) {
		mu.Lock()
		second = append(second, e.Order.OrderNumber)
		mu.Unlock()
	})

	dispatcher.Start()
	dispatcher.Publish(orderEvent("TOK-20240131-AAAAAA"))
	dispatcher.Publish(orderEvent("TOK-20240131-BBBBBB"))
	dispatcher.Close()

	assert.Equal(t, []string{"TOK-20240131-AAAAAA", "TOK-20240131-BBBBBB"}, first)
	assert.Equal(t, []string{"TOK-20240131-AAAAAA", "TOK-20240131-BBBBBB"}, second)
}

func TestDispatcherCloseDrainsQueue(t *testing.T) {
	dispatcher := NewDispatcher(16)

	var mu sync.Mutex
	count := 0
	dispatcher.Subscribe(func(OrderCreated) {
		time.Sleep(time.Millisecond)
		mu.Lock()
		count++
		mu.Unlock()
	})

	dispatcher.Start()
	for i := 0; i < 10; i++ {
		dispatcher.Publish(orderEvent("TOK-20240131-CCCCCC"))
	}
	dispatcher.Close()

	assert.Equal(t, 10, count)
}

func TestDispatcherSurvivesPanickingHandler(t *testing.T) {
	dispatcher := NewDispatcher(8)

	delivered := false
	dispatcher.Subscribe(func(OrderCreated) {
		panic("boom")
	})
	dispatcher.Subscribe(func(OrderCreated) {
		delivered = true
	})

	dispatcher.Start()
	dispatcher.Publish(orderEvent("TOK-20240131-DDDDDD"))
	dispatcher.Close()

	assert.True(t, delivered)
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	dispatcher := NewDispatcher(1)
	// Not started: the buffer holds one event, the rest are dropped.
	dispatcher.Publish(orderEvent("TOK-20240131-EEEEEE"))
	dispatcher.Publish(orderEvent("TOK-20240131-FFFFFF"))

	received := make([]string, 0, 2)
	dispatcher.Subscribe(func(e OrderCreated) {
		received = append(received, e.Order.OrderNumber)
	})
	dispatcher.Start()
	dispatcher.Close()

	assert.Equal(t, []string{"TOK-20240131-EEEEEE"}, received)
}
