package counter

import (
	tally "github.com/tallylabs/tally"
)

const InitializeCommand = "counter:initialize"

// Initialize creates the record with a count of zero. The caller becomes the
// authority; there is no authorization check by construction.
type Initialize struct{}

func (Initialize) TypeName() string {
	return InitializeCommand
}

const IncrementCommand = "counter:increment"

type Increment struct{}

func (Increment) TypeName() string {
	return IncrementCommand
}

const DecrementCommand = "counter:decrement"

type Decrement struct{}

func (Decrement) TypeName() string {
	return DecrementCommand
}

const SetCommand = "counter:set"

type Set struct {
	Value uint64 `json:"value"`
}

func (Set) TypeName() string {
	return SetCommand
}

const ResetCommand = "counter:reset"

type Reset struct{}

func (Reset) TypeName() string {
	return ResetCommand
}

const TransferAuthorityCommand = "counter:transfer-authority"

// TransferAuthority hands the record to a new authority. The new identity is
// accepted as presented; transferring to an unusable identity orphans the
// counter.
type TransferAuthority struct {
	Authority tally.Identity `json:"authority"`
}

func (TransferAuthority) TypeName() string {
	return TransferAuthorityCommand
}
