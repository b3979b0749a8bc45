// Package pipeline drives the core clustering pipeline end to end:
// permutation generation, LSH index construction, per-record
// similarity query, and incremental clustering. It has no knowledge
// of where records come from or where results go; those are the
// object store and CSV collaborators wired in by cmd/lshdedup.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lshdedup/lshdedup/internal/cluster"
	"github.com/lshdedup/lshdedup/internal/hashfamily"
	"github.com/lshdedup/lshdedup/internal/lshindex"
	"github.com/lshdedup/lshdedup/internal/model"
	"github.com/lshdedup/lshdedup/internal/respenvelope"
)

// DefaultMaxQueryFanout bounds how many per-record queries run
// concurrently against the index.
const DefaultMaxQueryFanout = 32

// Run executes the pipeline over records using the given config and
// returns one RecordResult for every record, including records whose
// cluster contains no other member.
func Run(ctx context.Context, log *slog.Logger, records []model.Record, cfg model.DedupConfig) ([]model.RecordResult, error) {
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return nil, respenvelope.ConfigError("pipeline: threshold %v out of range [0,1]", cfg.Threshold)
	}

	start := time.Now()
	perms, err := hashfamily.New(cfg.NumPerm)
	if err != nil {
		return nil, fmt.Errorf("pipeline: generating permutations: %w", err)
	}
	log.Debug("generated permutation table", "num_perm", cfg.NumPerm, "elapsed", time.Since(start))

	start = time.Now()
	idx, err := lshindex.New(ctx, records, perms, cfg.NumBands)
	if err != nil {
		return nil, fmt.Errorf("pipeline: building lsh index: %w", err)
	}
	log.Info("indexed records", "count", len(records), "num_bands", cfg.NumBands, "elapsed", time.Since(start))

	start = time.Now()
	threshold := cfg.Threshold
	candidateSets := make([][]string, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultMaxQueryFanout)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			sig, ok := idx.Signature(rec.ID)
			if !ok {
				return fmt.Errorf("pipeline: internal invariant violated: no signature for record %q", rec.ID)
			}
			cands, err := idx.Query(gctx, sig, &threshold)
			if err != nil {
				return fmt.Errorf("pipeline: querying record %q: %w", rec.ID, err)
			}
			candidateSets[i] = cands
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debug("queried candidates", "elapsed", time.Since(start))

	start = time.Now()
	clusterer := cluster.New()
	for i, rec := range records {
		clusterer.Add(rec.ID, candidateSets[i])
	}
	partition := clusterer.Partition()
	log.Info("clustered records", "num_clusters", len(partition), "elapsed", time.Since(start))

	results := make([]model.RecordResult, 0, len(records))
	for i, group := range partition {
		clusterID := fmt.Sprintf("%d-%d", i, len(group))
		for _, id := range group {
			results = append(results, model.RecordResult{ID: id, ClusterID: clusterID})
		}
	}
	return results, nil
}
