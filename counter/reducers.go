package counter

import (
	tally "github.com/tallylabs/tally"
)

// initializers
func initialized() tally.Initializer[Counter] {
	var initializer tally.InitializerFunction[Counter, Initialized] = func(evt *Initialized) (*Counter, error) {
		return &Counter{Count: 0, Authority: evt.Authority}, nil
	}

	return initializer
}

// reducers
//
// Bounds are enforced at publish time by the handlers, so replaying a
// recorded history never re-checks them.
func incremented() tally.Reducer[Counter] {
	var reducer tally.ReducerFunction[Counter, Incremented] = func(counter *Counter, evt *Incremented) error {
		counter.Count = counter.Count + 1
		return nil
	}

	return reducer
}

func decremented() tally.Reducer[Counter] {
	var reducer tally.ReducerFunction[Counter, Decremented] = func(counter *Counter, evt *Decremented) error {
		counter.Count = counter.Count - 1
		return nil
	}

	return reducer
}

func valueSet() tally.Reducer[Counter] {
	var reducer tally.ReducerFunction[Counter, ValueSet] = func(counter *Counter, evt *ValueSet) error {
		counter.Count = evt.Value
		return nil
	}

	return reducer
}

func authorityTransferred() tally.Reducer[Counter] {
	var reducer tally.ReducerFunction[Counter, AuthorityTransferred] = func(counter *Counter, evt *AuthorityTransferred) error {
		counter.Authority = evt.Authority
		return nil
	}

	return reducer
}
