package main

import (
	"github.com/google/wire"

	tally "github.com/tallylabs/tally"
	"github.com/tallylabs/tally/counter"
	"github.com/tallylabs/tally/stores/dynamo"
	"github.com/tallylabs/tally/stores/memory"
)

type CounterService = tally.EntityService[counter.Counter]

func NewCounterService(store tally.EventStore) CounterService {
	return counter.CreateCounterService(store)
}

var service = wire.NewSet(NewCounterService)

var Live = wire.NewSet(service, dynamo.Live)

var Local = wire.NewSet(service, memory.Store)
