package dynamo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	tally "github.com/tallylabs/tally"
)

type DynamoEventStore struct {
	db       *dynamodb.Client
	table    string
	revision *tally.RevisionGenerator
	encoder  tally.EventEncoder
}

type EventsTableName string

func (name EventsTableName) String() string {
	return string(name)
}

func NewEventStore(db *dynamodb.Client, table EventsTableName, encoder tally.EventEncoder) *DynamoEventStore {
	return &DynamoEventStore{db: db, table: string(table), revision: tally.NewRevisionGenerator(), encoder: encoder}
}

func (ds *DynamoEventStore) Load(ctx context.Context, id tally.AggregateId) (tally.Aggregate, error) {
	events, err := ds.read(ctx, &id)
	if err != nil {
		return tally.Aggregate{}, err
	}

	return tally.Aggregate{
		Id:       id,
		Revision: revisionFrom(events),
		Events:   events,
	}, nil
}

func (ds *DynamoEventStore) Publish(ctx context.Context, aggregateId tally.AggregateId, options tally.PublishOptions, events ...tally.DomainEvent) error {
	return ds.publish(ctx, &aggregateId, options, events)
}

func (ds *DynamoEventStore) Remove(ctx context.Context, aggregateId tally.AggregateId) (int, error) {
	return ds.remove(ctx, &aggregateId)
}

// internal

type changeSet struct {
	PartitionKey string                `dynamodbav:"pk"`
	SortKey      string                `dynamodbav:"sk"`
	Events       []tally.RecordedEvent `dynamodbav:"events"`
	Revision     tally.Revision        `dynamodbav:"revision"`
	Timestamp    tally.Timestamp       `dynamodbav:"timestamp"`
}

type latestRecord struct {
	PartitionKey string          `dynamodbav:"pk"`
	SortKey      string          `dynamodbav:"sk"`
	Revision     tally.Revision  `dynamodbav:"revision"`
	Timestamp    tally.Timestamp `dynamodbav:"timestamp"`
}

func partitionKey(id *tally.AggregateId) string {
	return id.Encode().String()
}

func sortKey(revision tally.Revision) string {
	return strings.Join([]string{`change-set#`, revision.String()}, "")
}

func latestFor(record *changeSet) *latestRecord {
	return &latestRecord{
		PartitionKey: record.PartitionKey,
		SortKey:      "latest-revision",
		Revision:     record.Revision,
		Timestamp:    record.Timestamp,
	}
}

func (ds *DynamoEventStore) read(ctx context.Context, id *tally.AggregateId) ([]tally.RecordedEvent, error) {
	query := expression.Key("pk").Equal(expression.Value(partitionKey(id))).And(
		expression.Key("sk").BeginsWith("change-set#"),
	)

	projection := expression.NamesList(expression.Name("events"))

	builder := expression.NewBuilder().WithKeyCondition(query).WithProjection(projection)
	expr, err := builder.Build()
	if err != nil {
		return nil, err
	}

	var events []tally.RecordedEvent
	var start map[string]types.AttributeValue
	for {
		query := &dynamodb.QueryInput{
			TableName:                 aws.String(ds.table),
			ExclusiveStartKey:         start,
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			KeyConditionExpression:    expr.KeyCondition(),
			ProjectionExpression:      expr.Projection(),
		}

		out, err := ds.db.Query(ctx, query)
		if err != nil {
			return nil, err
		}

		var items []changeSet
		err = attributevalue.UnmarshalListOfMaps(out.Items, &items)
		if err != nil {
			return nil, err
		}

		for _, record := range items {
			events = append(events, record.Events...)
		}

		start = out.LastEvaluatedKey
		if start == nil {
			break
		}
	}

	return events, nil
}

func latestCondition(revision *tally.Revision, expectedRevision tally.Revision) expression.ConditionBuilder {
	if len(expectedRevision) == 0 {
		return expression.Name("revision").LessThan(expression.Value(revision)).Or(
			expression.AttributeNotExists(expression.Name("revision")),
		)
	}

	if expectedRevision == tally.InitialRevision {
		return expression.AttributeNotExists(expression.Name("revision"))
	}

	return expression.Name("revision").Equal(expression.Value(expectedRevision))
}

func isRevisionConflict(err error) bool {
	return err == tally.RevisionConflict
}

func maybeRevisionConflict(err error) error {
	var oe *smithy.OperationError
	if errors.As(err, &oe) {
		var re *http.ResponseError
		if errors.As(oe.Unwrap(), &re) {
			var tc *types.TransactionCanceledException
			if errors.As(re.Unwrap(), &tc) {
				for _, reason := range tc.CancellationReasons {
					if *reason.Code == "ConditionalCheckFailed" {
						return tally.RevisionConflict
					}
				}
			}
		}
	}

	return err
}

func (ds *DynamoEventStore) makeChangeSet(aggregateId *tally.AggregateId, options tally.PublishOptions, events []tally.DomainEvent) (*changeSet, error) {
	now := time.Now()
	timestamp := tally.TimestampFromTime(now)

	recorded := make([]tally.RecordedEvent, len(events))

	for index, event := range events {
		revision := ds.revision.NewRevision(now)
		data, err := ds.encoder.Encode(event)
		if err != nil {
			return nil, err
		}

		recorded[index] = tally.RecordedEvent{
			EventID:     tally.EventID(revision),
			EventType:   tally.EventTypeOf(event),
			AggregateId: *aggregateId,
			Data:        *data,
			Revision:    revision,
			Timestamp:   timestamp,
			Metadata:    options.RecordedEventMetadata,
		}
	}

	last := recorded[len(events)-1].Revision

	return &changeSet{
		PartitionKey: partitionKey(aggregateId),
		SortKey:      sortKey(last),
		Events:       recorded,
		Timestamp:    timestamp,
		Revision:     last,
	}, nil
}

func (ds *DynamoEventStore) publish(ctx context.Context, aggregateId *tally.AggregateId, options tally.PublishOptions, events []tally.DomainEvent) error {
	if len(events) == 0 {
		return errors.New("attempted to publish empty list of events")
	}

	return retry.Do(
		func() error {
			changes, err := ds.makeChangeSet(aggregateId, options, events)
			if err != nil {
				return err
			}

			latest, err := attributevalue.MarshalMap(latestFor(changes))
			if err != nil {
				return err
			}

			record, err := attributevalue.MarshalMap(changes)
			if err != nil {
				return err
			}

			condition, err := expression.NewBuilder().WithCondition(
				latestCondition(
					&changes.Revision,
					options.ExpectedRevision,
				),
			).Build()
			if err != nil {
				return err
			}

			write := &dynamodb.TransactWriteItemsInput{
				TransactItems: []types.TransactWriteItem{
					{
						Put: &types.Put{
							Item:                                latest,
							TableName:                           aws.String(ds.table),
							ConditionExpression:                 condition.Condition(),
							ExpressionAttributeNames:            condition.Names(),
							ExpressionAttributeValues:           condition.Values(),
							ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureNone,
						},
					},
					{
						Put: &types.Put{
							Item:      record,
							TableName: aws.String(ds.table),
						},
					},
				},
			}

			_, err = ds.db.TransactWriteItems(ctx, write)
			return maybeRevisionConflict(err)
		}, retry.RetryIf(
			func(err error) bool {
				return isRevisionConflict(err) && len(options.ExpectedRevision) == 0
			},
		),
		retry.LastErrorOnly(true),
	)
}

func revisionFrom(events []tally.RecordedEvent) tally.Revision {
	count := len(events)
	if count == 0 {
		return tally.InitialRevision
	}

	return events[count-1].Revision
}

func (ds *DynamoEventStore) remove(ctx context.Context, id *tally.AggregateId) (int, error) {
	type record struct {
		PartitionKey string `dynamodbav:"pk"`
		SortKey      string `dynamodbav:"sk"`
	}

	query := expression.Key("pk").Equal(expression.Value(partitionKey(id)))
	projection := expression.NamesList(expression.Name("pk"), expression.Name("sk"))

	builder := expression.NewBuilder().WithKeyCondition(query).WithProjection(projection)
	expr, err := builder.Build()
	if err != nil {
		return 0, err
	}

	removed := 0
	var start map[string]types.AttributeValue
	for {
		query := &dynamodb.QueryInput{
			TableName:                 aws.String(ds.table),
			ExclusiveStartKey:         start,
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			KeyConditionExpression:    expr.KeyCondition(),
			ProjectionExpression:      expr.Projection(),
		}

		out, err := ds.db.Query(ctx, query)
		if err != nil {
			return removed, err
		}

		var items []record
		if err = attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return removed, err
		}

		for _, item := range items {
			key, err := attributevalue.MarshalMap(item)
			if err != nil {
				return removed, err
			}

			_, err = ds.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
				TableName: aws.String(ds.table),
				Key:       key,
			})
			if err != nil {
				return removed, err
			}

			removed = removed + 1
		}

		start = out.LastEvaluatedKey
		if start == nil {
			break
		}
	}

	return removed, nil
}
