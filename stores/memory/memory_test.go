package memory

import (
	"context"
	"testing"

	tally "github.com/tallylabs/tally"
)

func TestMemoryEventStore(t *testing.T) {
	store := NewEventStore()
	suite := tally.NewEventStoreValidationSuite(context.Background(), store)
	suite.Run(t)
}
