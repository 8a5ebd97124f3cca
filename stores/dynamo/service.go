package dynamo

import (
	"context"
	"errors"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"

	"github.com/google/wire"

	tally "github.com/tallylabs/tally"
	"github.com/tallylabs/tally/support"
)

var Live = wire.NewSet(
	support.AWSConfig,
	Client,
	LiveEventsTableName,
	NewEventStore,
	tally.NewJsonEventEncoder,
	wire.Bind(new(tally.EventEncoder), new(*tally.JsonEventEncoder)),
	wire.Bind(new(tally.EventStore), new(*DynamoEventStore)),
)

var Local = wire.NewSet(
	LocalDynamoStore,
	wire.Bind(new(tally.EventStore), new(*DynamoEventStore)),
)

var Test = wire.NewSet(
	TestStore,
	wire.Bind(new(tally.EventStore), new(*DynamoEventStore)),
)

func LiveEventsTableName() (EventsTableName, error) {
	table := os.Getenv("DYNAMODB_EVENTS_TABLE_NAME")
	if len(table) == 0 {
		return "", errors.New("DYNAMODB_EVENTS_TABLE_NAME is not set")
	}

	return EventsTableName(table), nil
}

func LocalEventsTableName() EventsTableName {
	return EventsTableName("tally-events")
}

func TestStore(ctx context.Context) (*DynamoEventStore, func(), error) {
	return DynamoTestStore(ctx)
}

func Client(cfg aws.Config) *dynamodb.Client {
	otelaws.AppendMiddlewares(&cfg.APIOptions)
	return dynamodb.NewFromConfig(cfg)
}
