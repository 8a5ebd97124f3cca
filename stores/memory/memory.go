// Package memory provides an in-process event store. It honors the same
// conditional-publish contract as the remote stores and exists so unit tests
// and local serving do not need a container.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/wire"

	tally "github.com/tallylabs/tally"
)

var Store = wire.NewSet(
	NewEventStore,
	wire.Bind(new(tally.EventStore), new(*EventStore)),
)

func NewEventStore() *EventStore {
	return &EventStore{
		revision: tally.NewRevisionGenerator(),
		encoder:  tally.NewJsonEventEncoder(),
		streams:  make(map[tally.EncodedAggregateId][]tally.RecordedEvent),
	}
}

type EventStore struct {
	mu       sync.Mutex
	revision *tally.RevisionGenerator
	encoder  tally.EventEncoder
	streams  map[tally.EncodedAggregateId][]tally.RecordedEvent
}

func (ms *EventStore) Load(ctx context.Context, id tally.AggregateId) (tally.Aggregate, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	stream := ms.streams[id.Encode()]
	events := make([]tally.RecordedEvent, len(stream))
	copy(events, stream)

	return tally.Aggregate{
		Id:       id,
		Events:   events,
		Revision: head(stream),
	}, nil
}

func (ms *EventStore) Publish(ctx context.Context, aggregateId tally.AggregateId, options tally.PublishOptions, events ...tally.DomainEvent) error {
	if len(events) == 0 {
		return errors.New("attempted to publish empty list of events")
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	stream := ms.streams[aggregateId.Encode()]

	if expected := options.ExpectedRevision; len(expected) > 0 {
		if expected != head(stream) {
			return tally.RevisionConflict
		}
	}

	now := time.Now()
	timestamp := tally.TimestampFromTime(now)

	recorded := make([]tally.RecordedEvent, len(events))
	for index, event := range events {
		data, err := ms.encoder.Encode(event)
		if err != nil {
			return err
		}

		revision := ms.revision.NewRevision(now)
		recorded[index] = tally.RecordedEvent{
			AggregateId: aggregateId,
			EventID:     tally.EventID(revision),
			EventType:   tally.EventTypeOf(event),
			Revision:    revision,
			Timestamp:   timestamp,
			Metadata:    options.RecordedEventMetadata,
			Data:        *data,
		}
	}

	ms.streams[aggregateId.Encode()] = append(stream, recorded...)

	return nil
}

func (ms *EventStore) Remove(ctx context.Context, id tally.AggregateId) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	removed := len(ms.streams[id.Encode()])
	delete(ms.streams, id.Encode())

	return removed, nil
}

func head(stream []tally.RecordedEvent) tally.Revision {
	if len(stream) == 0 {
		return tally.InitialRevision
	}

	return stream[len(stream)-1].Revision
}
