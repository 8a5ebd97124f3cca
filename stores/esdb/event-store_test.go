package esdbstore

import (
	"context"
	"testing"

	tally "github.com/tallylabs/tally"
)

func TestESDBStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container backed store test in short mode")
	}

	ctx := context.Background()
	store, tearDown, err := NewESDBTestStore(ctx)
	if err != nil {
		t.Fatalf("failed to create test store. %+v", err)
	}
	defer tearDown()

	suite := tally.NewEventStoreValidationSuite(ctx, store)
	suite.Run(t)
}
