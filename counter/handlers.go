package counter

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"

	tally "github.com/tallylabs/tally"
)

// authorize is the single guard shared by every guarded operation: exact
// equality between the resolved caller and the stored authority. A missing
// caller fails closed.
func authorize(ctx context.Context, state tally.Entity[Counter]) error {
	caller, ok := tally.CallerFrom(ctx)
	if !ok {
		return ErrUnauthorized
	}

	if state.State.Authority != caller {
		return ErrUnauthorized
	}

	return nil
}

func initialize() tally.CommandHandler[Counter] {
	var handler tally.CommandHandlerFunction[Counter, Initialize] = func(ctx context.Context, cmd Initialize, state tally.Entity[Counter], publish tally.EventPublisher) error {
		if state.Initialized() {
			return ErrAlreadyInitialized
		}

		caller, ok := tally.CallerFrom(ctx)
		if !ok {
			return ErrUnauthorized
		}

		options := tally.Options(tally.WithExpectedRevision(tally.InitialRevision))
		if err := publish(ctx, state.Aggregate, options, Initialized{Authority: caller}); err != nil {
			return err
		}

		log.Info().Str("counter", state.Aggregate.Encode().String()).Uint64("count", 0).Msg("counter initialized")
		return nil
	}

	return handler
}

func increment() tally.CommandHandler[Counter] {
	var handler tally.CommandHandlerFunction[Counter, Increment] = func(ctx context.Context, cmd Increment, state tally.Entity[Counter], publish tally.EventPublisher) error {
		if !state.Initialized() {
			return ErrNotFound
		}

		if err := authorize(ctx, state); err != nil {
			return err
		}

		if state.State.Count == math.MaxUint64 {
			return ErrOverflow
		}

		options := tally.Options(tally.WithExpectedRevision(state.Revision))
		if err := publish(ctx, state.Aggregate, options, Incremented{}); err != nil {
			return err
		}

		log.Info().Str("counter", state.Aggregate.Encode().String()).Uint64("count", state.State.Count+1).Msg("counter incremented")
		return nil
	}

	return handler
}

func decrement() tally.CommandHandler[Counter] {
	var handler tally.CommandHandlerFunction[Counter, Decrement] = func(ctx context.Context, cmd Decrement, state tally.Entity[Counter], publish tally.EventPublisher) error {
		if !state.Initialized() {
			return ErrNotFound
		}

		if err := authorize(ctx, state); err != nil {
			return err
		}

		if state.State.Count == 0 {
			return ErrUnderflow
		}

		options := tally.Options(tally.WithExpectedRevision(state.Revision))
		if err := publish(ctx, state.Aggregate, options, Decremented{}); err != nil {
			return err
		}

		log.Info().Str("counter", state.Aggregate.Encode().String()).Uint64("count", state.State.Count-1).Msg("counter decremented")
		return nil
	}

	return handler
}

func set() tally.CommandHandler[Counter] {
	var handler tally.CommandHandlerFunction[Counter, Set] = func(ctx context.Context, cmd Set, state tally.Entity[Counter], publish tally.EventPublisher) error {
		if !state.Initialized() {
			return ErrNotFound
		}

		if err := authorize(ctx, state); err != nil {
			return err
		}

		options := tally.Options(tally.WithExpectedRevision(state.Revision))
		if err := publish(ctx, state.Aggregate, options, ValueSet{Value: cmd.Value}); err != nil {
			return err
		}

		log.Info().Str("counter", state.Aggregate.Encode().String()).Uint64("count", cmd.Value).Msg("counter set")
		return nil
	}

	return handler
}

func reset() tally.CommandHandler[Counter] {
	var handler tally.CommandHandlerFunction[Counter, Reset] = func(ctx context.Context, cmd Reset, state tally.Entity[Counter], publish tally.EventPublisher) error {
		if !state.Initialized() {
			return ErrNotFound
		}

		if err := authorize(ctx, state); err != nil {
			return err
		}

		options := tally.Options(tally.WithExpectedRevision(state.Revision))
		if err := publish(ctx, state.Aggregate, options, ValueSet{Value: 0}); err != nil {
			return err
		}

		log.Info().Str("counter", state.Aggregate.Encode().String()).Uint64("count", 0).Msg("counter reset")
		return nil
	}

	return handler
}

func transferAuthority() tally.CommandHandler[Counter] {
	var handler tally.CommandHandlerFunction[Counter, TransferAuthority] = func(ctx context.Context, cmd TransferAuthority, state tally.Entity[Counter], publish tally.EventPublisher) error {
		if !state.Initialized() {
			return ErrNotFound
		}

		if err := authorize(ctx, state); err != nil {
			return err
		}

		options := tally.Options(tally.WithExpectedRevision(state.Revision))
		if err := publish(ctx, state.Aggregate, options, AuthorityTransferred{Authority: cmd.Authority}); err != nil {
			return err
		}

		log.Info().Str("counter", state.Aggregate.Encode().String()).Str("authority", cmd.Authority.String()).Msg("authority transferred")
		return nil
	}

	return handler
}
