// Package minhash builds fixed-length MinHash signatures over token
// sets and estimates Jaccard similarity from them.
//
// A length-k signature is built by taking, for each of k independent
// permutations of the universal hash family, the minimum permuted hash
// value over every token in the record. Two records whose true
// Jaccard similarity is J agree, in expectation, on a J fraction of
// signature positions: the standard MinHash estimator.
package minhash

import (
	"math"

	"github.com/lshdedup/lshdedup/internal/hashfamily"
)

// Signature is an ordered vector of exactly len(perms) 32-bit minima.
type Signature []uint32

// Build computes the signature of a token set under the given
// permutation table. The empty token set yields the sentinel
// signature: every position holds math.MaxUint32.
func Build(tokens []string, perms []hashfamily.Permutation) Signature {
	sig := make(Signature, len(perms))
	for i := range sig {
		sig[i] = math.MaxUint32
	}
	for _, t := range tokens {
		h := hashfamily.Hash64(t)
		for i, p := range perms {
			if v := hashfamily.Permute(h, p); v < sig[i] {
				sig[i] = v
			}
		}
	}
	return sig
}

// Jaccard estimates the Jaccard similarity of the sets that produced
// two signatures as the fraction of positions where they agree. The
// signatures must be the same length; callers within a single
// invocation always satisfy this since every signature is built from
// the same permutation table.
func Jaccard(a, b Signature) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	equal := 0
	for i := range a {
		if a[i] == b[i] {
			equal++
		}
	}
	return float64(equal) / float64(len(a))
}
