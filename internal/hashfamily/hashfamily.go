// Package hashfamily implements the universal hash family the MinHash
// builder and LSH index rely on: a fast 64-bit string hash and a
// parameterized family of permutations over its output.
package hashfamily

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Permutation is one (a, b) coefficient pair of a universal hash
// function h(x) = (a*x + b) mod 2^64.
type Permutation struct {
	A uint64
	B uint64
}

// Hash64 hashes a token to a 64-bit digest. It must be the same
// function used everywhere within a single invocation; xxhash gives a
// fast, well-distributed, non-cryptographic digest suitable for
// MinHash's independence assumptions.
func Hash64(token string) uint64 {
	return xxhash.Sum64String(token)
}

// Permute applies permutation p to a 64-bit hash and folds the result
// down to 32 bits, per the universal hash form
// ((a*h + b) mod 2^64) >> 32. Go's unsigned arithmetic already wraps
// modulo 2^64 on overflow, so no masking is required.
func Permute(h uint64, p Permutation) uint32 {
	return uint32((p.A*h + p.B) >> 32)
}

// New draws k independent uniform (a, b) pairs from an OS entropy
// source, once per invocation, and shares them across every record's
// signature construction.
func New(k int) ([]Permutation, error) {
	if k <= 0 {
		return nil, fmt.Errorf("hashfamily: num_perm must be positive, got %d", k)
	}
	perms := make([]Permutation, k)
	buf := make([]byte, 16)
	for i := range perms {
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("hashfamily: reading entropy: %w", err)
		}
		perms[i] = Permutation{
			A: binary.LittleEndian.Uint64(buf[0:8]),
			B: binary.LittleEndian.Uint64(buf[8:16]),
		}
	}
	return perms, nil
}
