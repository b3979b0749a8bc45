package lshindex_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lshdedup/lshdedup/internal/hashfamily"
	"github.com/lshdedup/lshdedup/internal/lshindex"
	"github.com/lshdedup/lshdedup/internal/model"
	"github.com/lshdedup/lshdedup/internal/respenvelope"
)

func records(pairs ...[2]string) []model.Record {
	out := make([]model.Record, len(pairs))
	for i, p := range pairs {
		out[i] = model.Record{ID: p[0], Text: p[1]}
	}
	return out
}

func TestNewRejectsIndivisibleBands(t *testing.T) {
	perms, err := hashfamily.New(10)
	require.NoError(t, err)

	_, err = lshindex.New(context.Background(), records([2]string{"1", "a b c"}), perms, 3)
	require.Error(t, err)

	var svcErr *respenvelope.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, respenvelope.StatusBadRequest, svcErr.Status())
}

func TestNewRejectsNonPositiveBands(t *testing.T) {
	perms, err := hashfamily.New(8)
	require.NoError(t, err)

	_, err = lshindex.New(context.Background(), records([2]string{"1", "a"}), perms, 0)
	require.Error(t, err)

	var svcErr *respenvelope.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, respenvelope.StatusBadRequest, svcErr.Status())
}

func TestSignatureLookup(t *testing.T) {
	perms, err := hashfamily.New(16)
	require.NoError(t, err)

	recs := records([2]string{"1", "the quick brown fox"}, [2]string{"2", "the slow brown fox"})
	idx, err := lshindex.New(context.Background(), recs, perms, 4)
	require.NoError(t, err)

	sig, ok := idx.Signature("1")
	assert.True(t, ok)
	assert.Len(t, sig, 16)

	_, ok = idx.Signature("missing")
	assert.False(t, ok)
}

func TestQueryAlwaysSelfMatches(t *testing.T) {
	perms, err := hashfamily.New(32)
	require.NoError(t, err)

	recs := records(
		[2]string{"1", "the quick brown fox jumps over the lazy dog"},
		[2]string{"2", "a completely unrelated sentence about oceans"},
	)
	idx, err := lshindex.New(context.Background(), recs, perms, 8)
	require.NoError(t, err)

	sig, ok := idx.Signature("1")
	require.True(t, ok)

	candidates, err := idx.Query(context.Background(), sig, nil)
	require.NoError(t, err)
	assert.Contains(t, candidates, "1")
}

func TestQueryWithThresholdFiltersDissimilarCandidates(t *testing.T) {
	perms, err := hashfamily.New(64)
	require.NoError(t, err)

	recs := records(
		[2]string{"near-dup-a", "the quick brown fox jumps over the lazy dog today"},
		[2]string{"near-dup-b", "the quick brown fox jumps over the lazy dog"},
		[2]string{"unrelated", "completely different text about distant oceans and tides"},
	)
	idx, err := lshindex.New(context.Background(), recs, perms, 16)
	require.NoError(t, err)

	sig, ok := idx.Signature("near-dup-a")
	require.True(t, ok)

	threshold := 0.5
	candidates, err := idx.Query(context.Background(), sig, &threshold)
	require.NoError(t, err)
	assert.Contains(t, candidates, "near-dup-a")
	assert.NotContains(t, candidates, "unrelated")
}

// TestRecallIsNonDecreasingInNumBands checks that, for a fixed
// num_perm and pair of records at a fixed true similarity, widening
// the band count (shrinking the per-band run length) does not lower
// the chance the pair collides as LSH candidates.
func TestRecallIsNonDecreasingInNumBands(t *testing.T) {
	const numPerm = 120
	const trials = 300

	recs := records(
		[2]string{"a", "the quick brown fox jumps over lazy dogs near water"},
		[2]string{"b", "the quick brown fox jumps over lazy dogs near shore"},
	)

	recallAt := func(numBands int) float64 {
		hits := 0
		for i := 0; i < trials; i++ {
			perms, err := hashfamily.New(numPerm)
			require.NoError(t, err)

			idx, err := lshindex.New(context.Background(), recs, perms, numBands)
			require.NoError(t, err)

			sig, ok := idx.Signature("a")
			require.True(t, ok)

			candidates, err := idx.Query(context.Background(), sig, nil)
			require.NoError(t, err)
			for _, c := range candidates {
				if c == "b" {
					hits++
					break
				}
			}
		}
		return float64(hits) / float64(trials)
	}

	fewBandsRecall := recallAt(3)
	manyBandsRecall := recallAt(15)

	assert.GreaterOrEqual(t, manyBandsRecall+0.05, fewBandsRecall,
		"recall with more bands (%v) should not be lower than with fewer bands (%v)", manyBandsRecall, fewBandsRecall)
}
