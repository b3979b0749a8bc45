// Package cluster consumes per-record candidate lists and
// incrementally materializes the equivalence classes ("connected
// components") of the similarity relation implied by those lists.
//
// A query record not yet assigned to any cluster opens a fresh one, and
// unassigned candidates join the query record's cluster; when a
// candidate already belongs to a different cluster, that whole cluster
// is merged into the query record's cluster. Merges are monotone: once two IDs
// share a cluster they are never split apart, so the final partition
// does not depend on input order. Signature construction and querying
// upstream may run in any order or in parallel; only this step is
// logically sequential.
package cluster

// Clusterer maintains the running partition as records are processed.
// It has a single logical writer; concurrent calls to Add are not
// safe.
type Clusterer struct {
	clusters map[int]map[string]struct{}
	lookup   map[string]int
	nextID   int
}

// New returns an empty Clusterer.
func New() *Clusterer {
	return &Clusterer{
		clusters: make(map[int]map[string]struct{}),
		lookup:   make(map[string]int),
	}
}

// Add feeds one (query_id, candidate_ids) pair into the clusterer.
// candidates is expected to contain queryID itself, per the querier's
// contract that a record always self-matches.
func (c *Clusterer) Add(queryID string, candidates []string) {
	target, ok := c.lookup[queryID]
	if !ok {
		target = c.nextID
		c.nextID++
	}

	staging := make(map[string]struct{})
	for _, cand := range candidates {
		other, assigned := c.lookup[cand]
		switch {
		case assigned && other != target:
			for id := range c.clusters[other] {
				staging[id] = struct{}{}
			}
			delete(c.clusters, other)
		case !assigned:
			staging[cand] = struct{}{}
		}
		// assigned && other == target: already in place, no change.
	}

	if _, exists := c.clusters[target]; !exists {
		c.clusters[target] = make(map[string]struct{})
	}
	for id := range staging {
		c.clusters[target][id] = struct{}{}
		c.lookup[id] = target
	}
}

// Partition enumerates the clusterer's current equivalence classes.
// Call it exactly once after all Add calls complete; the emitted
// cluster index and size are only meaningful as of that single
// enumeration. Iteration order is unspecified.
func (c *Clusterer) Partition() [][]string {
	out := make([][]string, 0, len(c.clusters))
	for _, set := range c.clusters {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		out = append(out, ids)
	}
	return out
}
