package jwtx

import (
	"errors"
	"sync/atomic"
	"time"
)

var ErrNoKey = errors.New("jwtx: key not found")

// snapshot is one immutable generation of the key set. Readers get a
// pointer to a snapshot and work with it; a refresh publishes a whole
// new snapshot instead of mutating the old one.
type snapshot struct {
	pub       map[string]any // kid -> *rsa.PublicKey | ed25519.PublicKey
	jwks      JWKS
	fetchedAt time.Time
}

// KeySet holds the identity provider's public verification keys.
// Reads are lock-free: concurrent verifications just load the current
// snapshot pointer, so a fetch in flight never blocks a request.
type KeySet struct {
	snap atomic.Pointer[snapshot]
}

// NewKeySet returns an empty KeySet. IsReady reports false until the
// first successful ResetFromJWKS.
func NewKeySet() *KeySet {
	ks := &KeySet{}
	ks.snap.Store(&snapshot{pub: map[string]any{}})
	return ks
}

// ResetFromJWKS parses a fetched JWKS and atomically publishes it as the
// new snapshot. On parse error nothing is published and the previous
// snapshot stays in place.
func (k *KeySet) ResetFromJWKS(jwks JWKS) error {
	pub := make(map[string]any, len(jwks.Keys))
	for _, j := range jwks.Keys {
		key, err := parseJWKToKey(j)
		if err != nil {
			return err
		}
		pub[j.Kid] = key
	}

	k.snap.Store(&snapshot{
		pub:       pub,
		jwks:      jwks,
		fetchedAt: time.Now().UTC(),
	})
	return nil
}

// Get returns the public key for the given kid.
func (k *KeySet) Get(kid string) (any, error) {
	if pk, ok := k.snap.Load().pub[kid]; ok {
		return pk, nil
	}
	return nil, ErrNoKey
}

// IsReady reports whether at least one key has been loaded.
func (k *KeySet) IsReady() bool {
	return len(k.snap.Load().pub) > 0
}

// FetchedAt returns when the current snapshot was published, or the zero
// time if no fetch has succeeded yet.
func (k *KeySet) FetchedAt() time.Time {
	return k.snap.Load().fetchedAt
}

// JWKS returns the raw key set of the current snapshot.
func (k *KeySet) JWKS() JWKS {
	return k.snap.Load().jwks
}
