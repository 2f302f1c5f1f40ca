package dedup

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
)

func newTestDeduplicator() *Deduplicator {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return New(logger)
}

func TestDeduplicate_Empty(t *testing.T) {
	d := newTestDeduplicator()

	out, trace := d.Deduplicate(context.Background(), nil, 0.5, true)
	assert.Empty(t, out)
	assert.Nil(t, trace)
}

func TestDeduplicate_OutputNeverGrows(t *testing.T) {
	d := newTestDeduplicator()

	records := []models.WineRecord{
		{Name: "ボニトゥラ NV", Country: "ポルトガル"},
		{Name: "CASA DE FONTE PEQUENA BONITURA NV"},
		{Name: "Cremant de Loire Brut"},
		{Name: "Cremant de Loire Brut", Producer: "Domaine Alpha"},
		{Name: "Monte Verde"},
	}

	for _, threshold := range []float64{0.0, 0.3, 0.5, 0.8, 1.01} {
		out, _ := d.Deduplicate(context.Background(), records, threshold, false)
		assert.LessOrEqual(t, len(out), len(records), "threshold %v", threshold)
		assert.NotEmpty(t, out)
	}
}

// Similarity is capped at 1.0, so a threshold above it disables merging
// entirely and the input passes through unchanged.
func TestDeduplicate_ThresholdAboveOneIsNoOp(t *testing.T) {
	d := newTestDeduplicator()

	records := []models.WineRecord{
		{Name: "ボニトゥラ NV"},
		{Name: "ボニトゥラ NV"},
		{Name: "Cremant de Loire Brut"},
	}

	out, _ := d.Deduplicate(context.Background(), records, 1.01, false)
	require.Len(t, out, len(records))
	for i := range records {
		assert.Equal(t, records[i].Name, out[i].Name)
	}
}

func TestDeduplicate_MergesSimilarRecords(t *testing.T) {
	d := newTestDeduplicator()

	records := []models.WineRecord{
		{Name: "ボニトゥラ NV", Country: "ポルトガル", SourceFile: "spring.pdf"},
		{Name: "CASA DE FONTE PEQUENA BONITURA NV", Producer: "Casa de Fonte Pequena", SourceFile: "summer.pdf"},
	}

	out, _ := d.Deduplicate(context.Background(), records, 0.5, false)
	require.Len(t, out, 1)
	assert.Equal(t, "ボニトゥラ NV", out[0].Name)
	assert.Equal(t, "spring.pdf, summer.pdf", out[0].SourceFile)
}

// Clustering is single-pass and greedy: B joins A's cluster, and C, which
// resembles B but not A, is never compared against the merged result, so it
// stays separate. This order dependence is intended behavior.
func TestDeduplicate_GreedyNonTransitiveClustering(t *testing.T) {
	d := newTestDeduplicator()

	a := models.WineRecord{Name: "monte verde alto riva"}
	b := models.WineRecord{Name: "monte verde luna sera"}
	c := models.WineRecord{Name: "luna sera vecchio piazza"}

	const threshold = 0.65

	// Precondition for the scenario: A~B and B~C match, A~C does not.
	scorer := d.scorer
	require.GreaterOrEqual(t, scorer.Similarity(a, b), threshold)
	require.GreaterOrEqual(t, scorer.Similarity(b, c), threshold)
	require.Less(t, scorer.Similarity(a, c), threshold)

	out, _ := d.Deduplicate(context.Background(), []models.WineRecord{a, b, c}, threshold, false)

	require.Len(t, out, 2)
	assert.Equal(t, "luna sera vecchio piazza", out[1].Name)
}

func TestDeduplicate_DebugTrace(t *testing.T) {
	d := newTestDeduplicator()

	records := []models.WineRecord{
		{Name: "ボニトゥラ NV"},
		{Name: "CASA DE FONTE PEQUENA BONITURA NV"},
		{Name: "unrelated zinfandel thing"},
	}

	t.Run("trace returned when debug enabled", func(t *testing.T) {
		out, trace := d.Deduplicate(context.Background(), records, 0.5, true)
		require.NotNil(t, trace)
		require.Len(t, out, 2)

		require.NotEmpty(t, trace.Comparisons)
		found := false
		for _, cmp := range trace.Comparisons {
			if cmp.RecordAName == "ボニトゥラ NV" && cmp.RecordBName == "CASA DE FONTE PEQUENA BONITURA NV" {
				found = true
				assert.True(t, cmp.Merged)
				assert.GreaterOrEqual(t, cmp.Score, 0.9)
			}
		}
		assert.True(t, found, "merged pair missing from comparison trace")

		require.Len(t, trace.Merges, 1)
		assert.Equal(t, "ボニトゥラ NV", trace.Merges[0].FinalName)

		require.Len(t, trace.Clusters, 1)
		assert.Equal(t, 2, trace.Clusters[0].MergedCount)
	})

	t.Run("no trace without debug", func(t *testing.T) {
		_, trace := d.Deduplicate(context.Background(), records, 0.5, false)
		assert.Nil(t, trace)
	})

	t.Run("traces are call scoped", func(t *testing.T) {
		_, first := d.Deduplicate(context.Background(), records, 0.5, true)
		_, second := d.Deduplicate(context.Background(), records, 0.5, true)
		require.NotNil(t, first)
		require.NotNil(t, second)
		assert.Equal(t, len(first.Comparisons), len(second.Comparisons))
		assert.NotSame(t, first, second)
	})
}
