package tally

import (
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func TestParseIdentityRoundTrip(t *testing.T) {
	encoded := strings.Repeat("ab", IdentityLength)

	id, err := ParseIdentity(encoded)
	assert.NoError(t, err)
	assert.Equal(t, encoded, id.String())
	assert.False(t, id.IsZero())
}

func TestParseIdentityRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"short":     "abcd",
		"long":      strings.Repeat("ab", IdentityLength+1),
		"not hex":   strings.Repeat("zz", IdentityLength),
		"empty":     "",
		"odd width": strings.Repeat("a", IdentityLength*2-1),
	}

	for name, encoded := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseIdentity(encoded)
			assert.Error(t, err)
		})
	}
}

func TestIdentityMarshalsAsHexText(t *testing.T) {
	encoded := strings.Repeat("01", IdentityLength)
	id, err := ParseIdentity(encoded)
	assert.NoError(t, err)

	marshalled, err := json.Marshal(id)
	assert.NoError(t, err)
	assert.Equal(t, `"`+encoded+`"`, string(marshalled))

	var decoded Identity
	assert.NoError(t, json.Unmarshal(marshalled, &decoded))
	assert.Equal(t, id, decoded)
}

func TestCallerFromContext(t *testing.T) {
	id, err := ParseIdentity(strings.Repeat("0f", IdentityLength))
	assert.NoError(t, err)

	_, ok := CallerFrom(context.Background())
	assert.False(t, ok)

	ctx := WithCaller(context.Background(), id)
	caller, ok := CallerFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, id, caller)

	// the zero identity never resolves as a caller
	_, ok = CallerFrom(WithCaller(context.Background(), Anonymous))
	assert.False(t, ok)
}
