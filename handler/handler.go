// Package handler queues webhook events for the processor.
package handler

import (
	"log"

	"github.com/kwoodhouse93/go-strava/strava"
	"github.com/kwoodhouse93/go-strava/webhooks"
)

type Handler struct {
	channel chan strava.Event
}

// New returns a Handler queueing up to buffer events.
func New(buffer int) *Handler {
	return &Handler{
		channel: make(chan strava.Event, buffer),
	}
}

// Func returns the webhooks.EventHandler feeding the queue. It never
// blocks: events arriving while the queue is full are dropped.
func (h Handler) Func() webhooks.EventHandler {
	return func(event strava.Event) {
		select {
		case h.channel <- event:
		default:
			log.Printf("handler: queue full, dropping %s %s event for object %d\n", event.ObjectType, event.AspectType, event.ObjectID)
		}
	}
}

func (h Handler) Received() <-chan strava.Event {
	return h.channel
}
