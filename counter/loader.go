package counter

import (
	tally "github.com/tallylabs/tally"
)

func Loader(store tally.EventStore) *tally.EntityLoader[Counter] {
	return tally.LoaderFor(store, Descriptor())
}
