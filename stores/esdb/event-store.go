package esdbstore

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/EventStore/EventStore-Client-Go/esdb"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	tally "github.com/tallylabs/tally"
)

type EventStoreOption func(*ESDBEventStore)

const defaultPageSize = 97

func PageSize(size int) EventStoreOption {
	return func(es *ESDBEventStore) {
		if size <= 0 {
			size = defaultPageSize
		}

		es.pageSize = size
	}
}

func NewEventStore(client *esdb.Client, options ...EventStoreOption) *ESDBEventStore {
	store := &ESDBEventStore{
		db:       client,
		pageSize: defaultPageSize,
	}

	for _, option := range options {
		option(store)
	}

	return store
}

type ESDBEventStore struct {
	db       *esdb.Client
	pageSize int
}

func (es *ESDBEventStore) Publish(ctx context.Context, aggregateId tally.AggregateId, options tally.PublishOptions, events ...tally.DomainEvent) error {
	streamId := aggregateId.Encode().String()

	metadata := map[string]string{}
	if options.RecordedEventMetadata.CorrelationId != "" {
		metadata["$correlationId"] = options.RecordedEventMetadata.CorrelationId.String()
	}
	if options.RecordedEventMetadata.CausationId != "" {
		metadata["$causationId"] = options.RecordedEventMetadata.CausationId.String()
	}

	var err error
	var md []byte
	if len(metadata) > 0 {
		md, err = json.Marshal(metadata)
		if err != nil {
			return errors.Wrap(err, "failed to marshal metadata")
		}
	}

	esevents := make([]esdb.EventData, len(events))
	for i, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return errors.Wrap(err, "failed to marshal event")
		}

		esevents[i] = esdb.EventData{
			ContentType: esdb.JsonContentType,
			EventType:   tally.EventTypeOf(event).String(),
			Data:        data,
			Metadata:    md,
		}
	}

	var revision esdb.ExpectedRevision = esdb.Any{}
	if options.ExpectedRevision == tally.InitialRevision {
		revision = esdb.NoStream{}
	} else if options.ExpectedRevision != "" {
		// revisions are offset by one from the stream's event numbers, see read
		r, err := strconv.ParseUint(options.ExpectedRevision.String(), 16, 64)
		if err != nil {
			return errors.Wrap(err, "invalid expected revision")
		}
		if r == 0 {
			return errors.New("invalid expected revision")
		}

		revision = esdb.Revision(r - 1)
	}

	esdbOptions := esdb.AppendToStreamOptions{
		ExpectedRevision: revision,
	}

	_, err = es.db.AppendToStream(ctx, streamId, esdbOptions, esevents...)
	if err != nil {
		if err == esdb.ErrWrongExpectedStreamRevision {
			return tally.RevisionConflict
		}

		return errors.Wrap(err, "failed to append to stream")
	}

	return nil
}

func (es *ESDBEventStore) Load(ctx context.Context, id tally.AggregateId) (tally.Aggregate, error) {
	var events []tally.RecordedEvent

	var position esdb.StreamPosition = esdb.Start{}
	for {
		page, last, err := es.read(ctx, id, position)
		if err != nil {
			return tally.Aggregate{}, err
		}
		events = append(events, page...)
		if (len(page) < es.pageSize) || (len(page) == 0) {
			break
		}

		position = last
	}

	revision := tally.InitialRevision
	if len(events) > 0 {
		revision = events[len(events)-1].Revision
	}

	return tally.Aggregate{
		Id:       id,
		Events:   events,
		Revision: revision,
	}, nil
}

func (es *ESDBEventStore) read(ctx context.Context, aggregate tally.AggregateId, from esdb.StreamPosition) ([]tally.RecordedEvent, esdb.StreamPosition, error) {
	if revision, ok := from.(esdb.StreamRevision); ok {
		from = esdb.StreamRevision{
			Value: revision.Value + 1,
		}
	}

	streamId := aggregate.Encode().String()
	stream, err := es.db.ReadStream(
		ctx, streamId, esdb.ReadStreamOptions{
			From: from,
		}, uint64(es.pageSize),
	)
	if err != nil {
		if err == esdb.ErrStreamNotFound {
			return nil, esdb.End{}, nil
		}

		if errors.Is(err, io.EOF) {
			return nil, esdb.End{}, nil
		}

		return nil, esdb.End{}, errors.Wrap(err, "failed to read stream")
	}
	defer stream.Close()

	var events []tally.RecordedEvent
	var last esdb.StreamPosition

	for {
		event, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, esdb.End{}, errors.Wrap(err, "failed to read event")
		}

		e := event.OriginalEvent()
		// the first event in an esdb stream is number 0, which would read as the
		// initial revision, so recorded revisions are offset by one
		revision := tally.Revision(fmt.Sprintf("%026x", e.EventNumber+1))

		var userMetadata map[string]string
		if len(e.UserMetadata) > 0 {
			if err := json.Unmarshal(e.UserMetadata, &userMetadata); err != nil {
				return nil, esdb.End{}, errors.Wrap(err, "failed to unmarshal metadata")
			}
		}

		metadata := tally.RecordedEventMetadata{
			CorrelationId: tally.CorrelationID(userMetadata["$correlationId"]),
			CausationId:   tally.EventID(userMetadata["$causationId"]),
		}

		recorded := tally.RecordedEvent{
			AggregateId: aggregate,
			EventID:     tally.EventID(e.EventID.String()),
			Revision:    revision,
			Timestamp:   tally.TimestampFromTime(e.CreatedDate),
			EventType:   tally.EventType(e.EventType),
			Data: tally.Data{
				Encoding: e.ContentType,
				Data:     e.Data,
			},
			Metadata: metadata,
		}

		events = append(events, recorded)

		last = esdb.Revision(e.EventNumber)
	}

	return events, last, nil
}
