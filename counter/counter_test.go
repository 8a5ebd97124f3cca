package counter

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"

	tally "github.com/tallylabs/tally"
	"github.com/tallylabs/tally/stores/memory"
)

var entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

func createId() tally.AggregateId {
	return tally.AggregateId{
		Type: EntityType,
		Key:  ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String(),
	}
}

func identity(fill byte) tally.Identity {
	var id tally.Identity
	for i := range id {
		id[i] = fill
	}
	return id
}

var (
	alice = identity(0xa1)
	bob   = identity(0xb2)
)

func as(id tally.Identity) context.Context {
	return tally.WithCaller(context.Background(), id)
}

type test = func(t *testing.T)

func initializesCounter(service tally.EntityService[Counter]) test {
	return func(t *testing.T) {
		id := createId()

		entity, err := service.Execute(as(alice), id, Initialize{})
		if err != nil {
			t.Logf("Unexpected failure %+v", err)
			t.Fail()
			return
		}

		assert.Equal(t, true, entity.Initialized())
		assert.Equal(t, uint64(0), entity.State.Count)
		assert.Equal(t, alice, entity.State.Authority)
	}
}

func rejectsReinitialization(service tally.EntityService[Counter]) test {
	return func(t *testing.T) {
		id := createId()

		_, err := service.Execute(as(alice), id, Initialize{})
		assert.NoError(t, err)

		_, err = service.Execute(as(bob), id, Initialize{})
		assert.ErrorIs(t, err, ErrAlreadyInitialized)

		entity, err := service.Load(context.Background(), id)
		assert.NoError(t, err)
		assert.Equal(t, alice, entity.State.Authority)
	}
}

func incrementsCounter(service tally.EntityService[Counter]) test {
	return func(t *testing.T) {
		id := createId()

		_, err := service.Execute(as(alice), id, Initialize{})
		assert.NoError(t, err)

		var entity tally.Entity[Counter]
		for i := 0; i < 3; i++ {
			entity, err = service.Execute(as(alice), id, Increment{})
			assert.NoError(t, err)
		}

		assert.Equal(t, uint64(3), entity.State.Count)
	}
}

func decrementsCounter(service tally.EntityService[Counter]) test {
	return func(t *testing.T) {
		id := createId()

		_, err := service.Execute(as(alice), id, Initialize{})
		assert.NoError(t, err)
		_, err = service.Execute(as(alice), id, Increment{})
		assert.NoError(t, err)
		_, err = service.Execute(as(alice), id, Increment{})
		assert.NoError(t, err)

		entity, err := service.Execute(as(alice), id, Decrement{})
		assert.NoError(t, err)
		assert.Equal(t, uint64(1), entity.State.Count)
	}
}

func setsAndResetsCounter(service tally.EntityService[Counter]) test {
	return func(t *testing.T) {
		id := createId()

		_, err := service.Execute(as(alice), id, Initialize{})
		assert.NoError(t, err)

		entity, err := service.Execute(as(alice), id, Set{Value: 42})
		assert.NoError(t, err)
		assert.Equal(t, uint64(42), entity.State.Count)

		entity, err = service.Execute(as(alice), id, Reset{})
		assert.NoError(t, err)
		assert.Equal(t, uint64(0), entity.State.Count)
	}
}

func rejectsOverflow(service tally.EntityService[Counter]) test {
	return func(t *testing.T) {
		id := createId()

		_, err := service.Execute(as(alice), id, Initialize{})
		assert.NoError(t, err)
		_, err = service.Execute(as(alice), id, Set{Value: math.MaxUint64})
		assert.NoError(t, err)

		_, err = service.Execute(as(alice), id, Increment{})
		assert.ErrorIs(t, err, ErrOverflow)

		entity, err := service.Load(context.Background(), id)
		assert.NoError(t, err)
		assert.Equal(t, uint64(math.MaxUint64), entity.State.Count)
	}
}

func rejectsUnderflow(service tally.EntityService[Counter]) test {
	return func(t *testing.T) {
		id := createId()

		_, err := service.Execute(as(alice), id, Initialize{})
		assert.NoError(t, err)

		_, err = service.Execute(as(alice), id, Decrement{})
		assert.ErrorIs(t, err, ErrUnderflow)

		entity, err := service.Load(context.Background(), id)
		assert.NoError(t, err)
		assert.Equal(t, uint64(0), entity.State.Count)
	}
}

func rejectsNonAuthority(service tally.EntityService[Counter]) test {
	return func(t *testing.T) {
		id := createId()

		_, err := service.Execute(as(alice), id, Initialize{})
		assert.NoError(t, err)
		_, err = service.Execute(as(alice), id, Set{Value: 7})
		assert.NoError(t, err)

		commands := map[string]tally.Command{
			"increment":          Increment{},
			"decrement":          Decrement{},
			"set":                Set{Value: 99},
			"reset":              Reset{},
			"transfer authority": TransferAuthority{Authority: bob},
		}

		for name, command := range commands {
			_, err = service.Execute(as(bob), id, command)
			assert.ErrorIs(t, err, ErrUnauthorized, name)
		}

		entity, err := service.Load(context.Background(), id)
		assert.NoError(t, err)
		assert.Equal(t, uint64(7), entity.State.Count)
		assert.Equal(t, alice, entity.State.Authority)
	}
}

func rejectsUnresolvedCaller(service tally.EntityService[Counter]) test {
	return func(t *testing.T) {
		id := createId()

		_, err := service.Execute(context.Background(), id, Initialize{})
		assert.ErrorIs(t, err, ErrUnauthorized)

		_, err = service.Execute(as(alice), id, Initialize{})
		assert.NoError(t, err)

		_, err = service.Execute(context.Background(), id, Increment{})
		assert.ErrorIs(t, err, ErrUnauthorized)

		_, err = service.Execute(as(tally.Anonymous), id, Increment{})
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
}

func rejectsMissingCounter(service tally.EntityService[Counter]) test {
	return func(t *testing.T) {
		id := createId()

		commands := map[string]tally.Command{
			"increment":          Increment{},
			"decrement":          Decrement{},
			"set":                Set{Value: 1},
			"reset":              Reset{},
			"transfer authority": TransferAuthority{Authority: bob},
		}

		for name, command := range commands {
			_, err := service.Execute(as(alice), id, command)
			assert.ErrorIs(t, err, ErrNotFound, name)
		}
	}
}

func transfersAuthority(service tally.EntityService[Counter]) test {
	return func(t *testing.T) {
		id := createId()

		_, err := service.Execute(as(alice), id, Initialize{})
		assert.NoError(t, err)

		entity, err := service.Execute(as(alice), id, TransferAuthority{Authority: bob})
		assert.NoError(t, err)
		assert.Equal(t, bob, entity.State.Authority)

		_, err = service.Execute(as(alice), id, Increment{})
		assert.ErrorIs(t, err, ErrUnauthorized)

		entity, err = service.Execute(as(bob), id, Increment{})
		assert.NoError(t, err)
		assert.Equal(t, uint64(1), entity.State.Count)
	}
}

func TestCounterService(t *testing.T) {
	service := CreateCounterService(memory.NewEventStore())

	t.Run("initialize counter", initializesCounter(service))
	t.Run("reject reinitialization", rejectsReinitialization(service))
	t.Run("increment counter", incrementsCounter(service))
	t.Run("decrement counter", decrementsCounter(service))
	t.Run("set and reset counter", setsAndResetsCounter(service))
	t.Run("reject overflow", rejectsOverflow(service))
	t.Run("reject underflow", rejectsUnderflow(service))
	t.Run("reject non-authority callers", rejectsNonAuthority(service))
	t.Run("reject unresolved callers", rejectsUnresolvedCaller(service))
	t.Run("reject operations on missing counters", rejectsMissingCounter(service))
	t.Run("transfer authority", transfersAuthority(service))
}

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, 403, ErrorStatus(ErrUnauthorized))
	assert.Equal(t, 404, ErrorStatus(ErrNotFound))
	assert.Equal(t, 409, ErrorStatus(ErrAlreadyInitialized))
	assert.Equal(t, 422, ErrorStatus(ErrOverflow))
	assert.Equal(t, 422, ErrorStatus(ErrUnderflow))
	assert.Equal(t, 409, ErrorStatus(tally.RevisionConflict))
	assert.Equal(t, 0, ErrorStatus(context.Canceled))
}
