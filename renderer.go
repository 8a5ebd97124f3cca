package tally

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
)

type Initializers[T any] map[EventType]Initializer[T]
type Reducers[T any] map[EventType]Reducer[T]

type Renderer[T any] struct {
	Initializers Initializers[T]
	Reducers     Reducers[T]
}

// Render folds the recorded history into an entity. Events recorded before
// the first recognized initializing event are skipped; an empty history
// renders an uninitialized entity, not an error.
func (r *Renderer[T]) Render(ctx context.Context, aggregate Aggregate) (Entity[T], error) {
	var state *T
	var err error

	for i := range aggregate.Events {
		event := &aggregate.Events[i]
		eventType := event.EventType

		if state == nil {
			initializer := r.Initializers[eventType]
			if nil == initializer {
				continue
			}

			_, span := otel.Tracer(tracerName).Start(ctx, fmt.Sprintf("initialize %s", eventType))
			state, err = initializer.Initialize(event)
			span.End()
			if err != nil {
				return Entity[T]{}, errors.Wrap(err, fmt.Sprintf("failed to initialize state with %s", eventType))
			}
		} else {
			reducer := r.Reducers[eventType]
			if nil == reducer {
				continue
			}

			_, span := otel.Tracer(tracerName).Start(ctx, fmt.Sprintf("process %s", eventType))
			err = reducer.Reduce(state, event)
			span.End()
			if err != nil {
				return Entity[T]{}, errors.Wrap(err, fmt.Sprintf("failed to process update with %s", eventType))
			}
		}
	}

	return Entity[T]{
		Aggregate: aggregate.Id,
		Revision:  aggregate.Revision,
		Type:      EntityTypeOf(state),
		State:     state,
	}, nil
}
