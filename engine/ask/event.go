package ask

import (
	"time"

	"github.com/lifelineconnect/lifeline/engine/domain"
)

// EventSubject is the NATS subject answered questions are published on.
const EventSubject = "lifeline.ask"

// Event describes one answered question for downstream analytics.
type Event struct {
	RequestID string       `json:"request_id,omitempty"`
	Query     string       `json:"query"`
	City      string       `json:"city,omitempty"`
	Zip       string       `json:"zip,omitempty"`
	Topic     domain.Topic `json:"topic"`
	Matched   int          `json:"matched"`
	Returned  int          `json:"returned"`
	Fallback  bool         `json:"fallback"`
	At        time.Time    `json:"at"`
}

// NewEvent builds the Event for an answer.
func NewEvent(requestID, query string, a Answer, at time.Time) Event {
	return Event{
		RequestID: requestID,
		Query:     query,
		City:      a.Location.City,
		Zip:       a.Location.Zip,
		Topic:     a.Topic,
		Matched:   a.Matched,
		Returned:  len(a.Resources),
		Fallback:  a.Fallback,
		At:        at.UTC(),
	}
}
