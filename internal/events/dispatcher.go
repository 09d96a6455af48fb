// internal/events/dispatcher.go
package events

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tokita/tokita-backend/internal/models"
)

// OrderCreated is published after a checkout transaction commits.
type OrderCreated struct {
	Order models.Order
}

// Handler consumes one event. Handlers run on the dispatcher goroutine,
// so slow work (network sends) should keep its own timeout.
type Handler func(event OrderCreated)

// Dispatcher fans out order events to subscribers on a single background
// goroutine. Publishing never blocks the request path: when the buffer is
// full the event is dropped and logged.
type Dispatcher struct {
	events   chan OrderCreated
	handlers []Handler
	mtx      sync.RWMutex
	done     chan struct{}
	once     sync.Once
}

func NewDispatcher(buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	return &Dispatcher{
		events: make(chan OrderCreated, buffer),
		done:   make(chan struct{}),
	}
}

// Subscribe registers a handler. Must be called before Start.
func (d *Dispatcher) Subscribe(h Handler) {
	d.mtx.Lock()
	d.handlers = append(d.handlers, h)
	d.mtx.Unlock()
}

func (d *Dispatcher) Start() {
	go d.run()
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for event := range d.events {
		d.mtx.RLock()
		handlers := d.handlers
		d.mtx.RUnlock()

		for _, h := range handlers {
			d.dispatch(h, event)
		}
	}
}

func (d *Dispatcher) dispatch(h Handler, event OrderCreated) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Error("Event handler panicked")
		}
	}()
	h(event)
}

// Publish enqueues an event without blocking.
func (d *Dispatcher) Publish(event OrderCreated) {
	select {
	case d.events <- event:
	default:
		logrus.WithField("order_number", event.Order.OrderNumber).
			Warn("Event buffer full, dropping order event")
	}
}

// Close stops the dispatcher after draining queued events.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.events)
	})
	<-d.done
}
