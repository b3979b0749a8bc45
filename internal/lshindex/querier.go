package lshindex

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lshdedup/lshdedup/internal/minhash"
)

// DefaultMaxQueryConcurrency bounds how many goroutines evaluate the
// per-candidate Jaccard filter concurrently.
const DefaultMaxQueryConcurrency = 32

// Query unions the candidate buckets of sig across every band and, if
// threshold is non-nil, retains only candidates whose signature
// Jaccard with sig is >= *threshold. The query record's own ID is not
// special-cased: it is expected to appear as a self-match in both the
// filtered and unfiltered paths, since Jaccard(sig, sig) == 1.0.
func (idx *Index) Query(ctx context.Context, sig minhash.Signature, threshold *float64) ([]string, error) {
	seen := make(map[string]struct{})
	for j := 0; j < idx.numBands; j++ {
		bh := idx.BandHash(sig, j)
		for _, id := range idx.Bucket(j, bh) {
			seen[id] = struct{}{}
		}
	}

	if threshold == nil {
		out := make([]string, 0, len(seen))
		for id := range seen {
			out = append(out, id)
		}
		return out, nil
	}

	candidates := make([]string, 0, len(seen))
	for id := range seen {
		candidates = append(candidates, id)
	}

	kept := make([]bool, len(candidates))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultMaxQueryConcurrency)
	for i, id := range candidates {
		i, id := i, id
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			candSig, ok := idx.Signature(id)
			if !ok {
				return fmt.Errorf("lshindex: internal invariant violated: candidate %q missing from signature map", id)
			}
			kept[i] = minhash.Jaccard(sig, candSig) >= *threshold
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(candidates))
	for i, id := range candidates {
		if kept[i] {
			out = append(out, id)
		}
	}
	return out, nil
}
