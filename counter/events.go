package counter

import (
	tally "github.com/tallylabs/tally"
)

type Initialized struct {
	Authority tally.Identity `json:"authority"`
}

type Incremented struct{}

type Decremented struct{}

type ValueSet struct {
	Value uint64 `json:"value"`
}

type AuthorityTransferred struct {
	Authority tally.Identity `json:"authority"`
}
