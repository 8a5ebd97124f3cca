// Package counter implements an account-style counter: a single record
// holding a count and the one authority permitted to change it. Every
// mutation is guarded by an authority check and checked arithmetic; a failed
// command records nothing, so the record is untouched on every failure path.
package counter

import (
	tally "github.com/tallylabs/tally"
)

type Counter struct {
	Count     uint64         `json:"count"`
	Authority tally.Identity `json:"authority"`
}

func (state *Counter) Value() uint64 {
	return state.Count
}

func (*Counter) EntityType() tally.EntityType {
	return EntityType
}
