package tally

import (
	"encoding/hex"
	"fmt"
)

// IdentityLength is the size, in bytes, of a caller identity. Identities are
// opaque to the service; they are whatever fixed-width key the fronting
// authenticator verifies.
const IdentityLength = 32

type Identity [IdentityLength]byte

// Anonymous is the zero identity. It never authorizes anything.
var Anonymous = Identity{}

func ParseIdentity(encoded string) (Identity, error) {
	var id Identity

	decoded, err := hex.DecodeString(encoded)
	if err != nil {
		return Anonymous, fmt.Errorf("malformed identity %q: %w", encoded, err)
	}

	if len(decoded) != IdentityLength {
		return Anonymous, fmt.Errorf("malformed identity %q: expected %d bytes, got %d", encoded, IdentityLength, len(decoded))
	}

	copy(id[:], decoded)
	return id, nil
}

func IdentityFromBytes(raw []byte) (Identity, error) {
	var id Identity

	if len(raw) != IdentityLength {
		return Anonymous, fmt.Errorf("expected %d bytes, got %d", IdentityLength, len(raw))
	}

	copy(id[:], raw)
	return id, nil
}

func (id Identity) IsZero() bool {
	return id == Anonymous
}

func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}

	*id = parsed
	return nil
}
