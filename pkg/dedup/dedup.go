// Package dedup clusters similar wine records and collapses each cluster
// into one merged record.
package dedup

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/atsuyamaru/wine-ec-email-composer/pkg/matching"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/merging"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/tracing"
)

// traceFloor is the similarity above which compared pairs are recorded in
// the debug trace.
const traceFloor = 0.3

// Deduplicator runs the single-pass greedy deduplication over a record
// batch. It holds no per-call state: every invocation operates on its own
// record list and returns its own trace, so concurrent callers never share
// mutable state.
type Deduplicator struct {
	logger ectologger.Logger
	scorer *matching.Scorer
	merger *merging.Merger
}

// New creates a Deduplicator with the default scorer.
func New(logger ectologger.Logger) *Deduplicator {
	return &Deduplicator{
		logger: logger,
		scorer: matching.NewScorer(),
		merger: merging.NewMerger(),
	}
}

// NewWithScorer creates a Deduplicator with an explicitly configured scorer.
func NewWithScorer(logger ectologger.Logger, scorer *matching.Scorer) *Deduplicator {
	return &Deduplicator{
		logger: logger,
		scorer: scorer,
		merger: merging.NewMerger(),
	}
}

// Deduplicate collapses similar records. Each not-yet-consumed record is, in
// input order, compared against every later unconsumed record; matches at or
// above threshold join its cluster and are consumed. Each cluster folds
// left-to-right through the merger in discovery order, and output preserves
// the order of cluster representatives.
//
// This is deliberately greedy and not transitive-closure safe: a record
// consumed into an earlier cluster is never reconsidered as a nucleus, so
// results can depend on input order. That matches the product's observed
// behavior for wine-list batches, which are small (tens of records; the scan
// is O(n²) pairs and should not be fed large n).
//
// When debug is true the returned trace carries every compared pair above
// the trace floor and every merge decision. The trace is scoped to this call
// only; it is never accumulated in shared state.
func (d *Deduplicator) Deduplicate(ctx context.Context, records []models.WineRecord, threshold float64, debug bool) ([]models.WineRecord, *models.DedupTrace) {
	ctx, span := tracing.StartSpan(ctx, "dedup.Deduplicator.Deduplicate")
	defer span.End()

	if len(records) == 0 {
		return []models.WineRecord{}, nil
	}

	var trace *models.DedupTrace
	if debug {
		trace = &models.DedupTrace{}
	}

	// Identities are pure functions of each record; extract once per batch.
	identities := make([]models.WineIdentity, len(records))
	for i, r := range records {
		identities[i] = matching.ExtractIdentity(r)
	}

	deduplicated := make([]models.WineRecord, 0, len(records))
	consumed := make([]bool, len(records))

	for i := range records {
		if consumed[i] {
			continue
		}

		cluster := []int{i}
		for j := i + 1; j < len(records); j++ {
			if consumed[j] {
				continue
			}

			similarity := d.scorer.SimilarityFromIdentities(records[i], records[j], identities[i], identities[j])
			matched := similarity >= threshold

			if debug && similarity > traceFloor {
				trace.Comparisons = append(trace.Comparisons, models.ComparedPair{
					RecordAName: records[i].Name,
					RecordBName: records[j].Name,
					Score:       similarity,
					Merged:      matched,
				})
			}

			if matched {
				cluster = append(cluster, j)
				consumed[j] = true
			}
		}

		merged := records[cluster[0]]
		for _, idx := range cluster[1:] {
			var decision models.MergeDecision
			merged, decision = d.merger.Merge(merged, records[idx])
			if debug {
				trace.Merges = append(trace.Merges, decision)
			}
		}

		if len(cluster) > 1 {
			names := make([]string, len(cluster))
			for k, idx := range cluster {
				names[k] = records[idx].Name
			}
			if debug {
				trace.Clusters = append(trace.Clusters, models.ClusterInfo{
					FinalName:     merged.Name,
					MergedCount:   len(cluster),
					OriginalNames: names,
				})
			}
			if d.logger != nil {
				d.logger.WithContext(ctx).WithFields(map[string]any{
					"final_name":   merged.Name,
					"merged_count": len(cluster),
				}).Debug("Merged similar wine records")
			}
		}

		deduplicated = append(deduplicated, merged)
	}

	if d.logger != nil {
		d.logger.WithContext(ctx).WithFields(map[string]any{
			"input_count":  len(records),
			"output_count": len(deduplicated),
			"threshold":    threshold,
		}).Info("Deduplication complete")
	}

	return deduplicated, trace
}
