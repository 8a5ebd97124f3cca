package counter

import (
	tally "github.com/tallylabs/tally"
)

// EntityType is the aggregate type counters are stored under.
const EntityType = "counter"

func Descriptor() tally.ServiceDescriptor[Counter] {
	initializers := map[tally.EventType]func() tally.Initializer[Counter]{
		tally.EventTypeOf(Initialized{}): initialized,
	}

	reducers := map[tally.EventType]func() tally.Reducer[Counter]{
		tally.EventTypeOf(Incremented{}):          incremented,
		tally.EventTypeOf(Decremented{}):          decremented,
		tally.EventTypeOf(ValueSet{}):             valueSet,
		tally.EventTypeOf(AuthorityTransferred{}): authorityTransferred,
	}

	handlers := map[tally.CommandName]func() tally.CommandHandler[Counter]{
		tally.CommandNameOf(Initialize{}):        initialize,
		tally.CommandNameOf(Increment{}):         increment,
		tally.CommandNameOf(Decrement{}):         decrement,
		tally.CommandNameOf(Set{}):               set,
		tally.CommandNameOf(Reset{}):             reset,
		tally.CommandNameOf(TransferAuthority{}): transferAuthority,
	}

	return tally.ServiceDescriptor[Counter]{
		Initializers: initializers,
		Reducers:     reducers,
		Handlers:     handlers,
	}
}

func CreateCounterService(store tally.EventStore) tally.EntityService[Counter] {
	return tally.ServiceFor(store, Descriptor())
}
