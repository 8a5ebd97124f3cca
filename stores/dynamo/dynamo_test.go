package dynamo

import (
	"context"
	"testing"

	tally "github.com/tallylabs/tally"
)

func TestDynamoDBStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container backed store test in short mode")
	}

	ctx := context.Background()
	store, tearDown, err := DynamoTestStore(ctx)
	if err != nil {
		t.Fatalf("failed to create test store. %+v", err)
	}
	defer tearDown()

	suite := tally.NewEventStoreValidationSuite(ctx, store)
	suite.Run(t)
}
