// Package lshindex builds a banded Locality-Sensitive Hashing index
// over MinHash signatures and exposes the per-band bucket lookups the
// querier needs to assemble a candidate set.
//
// The signature is split into numBands contiguous bands of r =
// numPerm/numBands components each. Two records become LSH candidates
// if any of their bands hash to the same bucket. With true similarity
// s, two records collide on a given band with probability s^r and
// therefore appear as candidates with probability 1-(1-s^r)^numBands:
// the S-curve recall guarantee the caller relies on when choosing
// numPerm and numBands.
package lshindex

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/lshdedup/lshdedup/internal/hashfamily"
	"github.com/lshdedup/lshdedup/internal/minhash"
	"github.com/lshdedup/lshdedup/internal/model"
	"github.com/lshdedup/lshdedup/internal/respenvelope"
	"github.com/lshdedup/lshdedup/internal/tokenizer"
)

// DefaultMaxBuildConcurrency bounds how many goroutines build
// signatures concurrently during index construction.
const DefaultMaxBuildConcurrency = 32

// Index is a banded LSH index plus the side table of full signatures
// needed for exact similarity filtering at query time.
type Index struct {
	numBands int
	bandSize int

	signatures map[string]minhash.Signature
	tables     []map[uint64][]string
}

// New builds an Index over records using perms as the shared
// permutation table. It fails if numBands is not positive or does not
// evenly divide numPerm, per the band decomposition invariant.
func New(ctx context.Context, records []model.Record, perms []hashfamily.Permutation, numBands int) (*Index, error) {
	numPerm := len(perms)
	if numBands <= 0 || numPerm%numBands != 0 {
		return nil, respenvelope.ConfigError("lshindex: num_perm (%d) must be evenly divisible by num_bands (%d)", numPerm, numBands)
	}
	bandSize := numPerm / numBands

	idx := &Index{
		numBands:   numBands,
		bandSize:   bandSize,
		signatures: make(map[string]minhash.Signature, len(records)),
		tables:     make([]map[uint64][]string, numBands),
	}
	for j := range idx.tables {
		idx.tables[j] = make(map[uint64][]string)
	}

	sigs := make([]minhash.Signature, len(records))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultMaxBuildConcurrency)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			sigs[i] = minhash.Build(tokenizer.Tokenize(rec.Text), perms)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("lshindex: building signatures: %w", err)
	}

	for i, rec := range records {
		idx.signatures[rec.ID] = sigs[i]
		for j := 0; j < numBands; j++ {
			start := j * bandSize
			end := start + bandSize
			bh := bandHash(sigs[i][start:end])
			idx.tables[j][bh] = append(idx.tables[j][bh], rec.ID)
		}
	}

	return idx, nil
}

// NumBands reports the number of bands the index was built with.
func (idx *Index) NumBands() int {
	return idx.numBands
}

// BandHash computes the hash of sig's j'th band.
func (idx *Index) BandHash(sig minhash.Signature, j int) uint64 {
	start := j * idx.bandSize
	end := start + idx.bandSize
	return bandHash(sig[start:end])
}

// Bucket returns the record IDs sharing band j's bucket hash bh. The
// returned slice is the index's own backing storage and must not be
// mutated by callers.
func (idx *Index) Bucket(j int, bh uint64) []string {
	return idx.tables[j][bh]
}

// Signature returns the stored signature for a record ID that was
// present in the batch the index was built from.
func (idx *Index) Signature(id string) (minhash.Signature, bool) {
	sig, ok := idx.signatures[id]
	return sig, ok
}

// bandHash deterministically combines a band's signature components
// into a single 64-bit bucket key, independent of the values'
// position within the full signature.
func bandHash(band minhash.Signature) uint64 {
	buf := make([]byte, len(band)*4)
	for i, v := range band {
		buf[i*4] = byte(v)
		buf[i*4+1] = byte(v >> 8)
		buf[i*4+2] = byte(v >> 16)
		buf[i*4+3] = byte(v >> 24)
	}
	return xxhash.Sum64(buf)
}
