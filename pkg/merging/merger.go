// Package merging collapses matched wine records into one golden record
// under a Japanese-content-priority policy.
package merging

import (
	"strings"

	"github.com/atsuyamaru/wine-ec-email-composer/pkg/japanese"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
)

// nameTerms are wine-specific words used as the last tiebreak when choosing
// between two Latin names of similar length.
var nameTerms = []string{"cremant", "brut", "zero", "blanc", "rouge", "reserve"}

// Merger builds one merged record from two similar records. Merging is
// deterministic for a given input order but not symmetric in its tiebreaks.
type Merger struct{}

// NewMerger creates a new Merger.
func NewMerger() *Merger {
	return &Merger{}
}

// Merge combines two records. The returned record is newly built; neither
// input is mutated. The MergeDecision reports how the primary record and the
// final name were chosen, for debug surfaces only.
func (m *Merger) Merge(a, b models.WineRecord) (models.WineRecord, models.MergeDecision) {
	jpA := japanese.ContentScore(a)
	jpB := japanese.ContentScore(b)

	primary, secondary, primaryIsA := choosePrimary(a, b, jpA, jpB)

	merged := primary

	// Japanese-priority fill: prefer the value carrying Japanese script,
	// then the longer one.
	merged.Producer = preferJapaneseOrFill(primary.Producer, secondary.Producer)
	merged.Country = preferJapaneseOrFill(primary.Country, secondary.Country)
	merged.Region = preferJapaneseOrFill(primary.Region, secondary.Region)
	merged.GrapeVariety = preferJapaneseOrFill(primary.GrapeVariety, secondary.GrapeVariety)

	// Plain fill-if-empty; language preference adds nothing for these.
	if merged.Vintage == "" {
		merged.Vintage = secondary.Vintage
	}
	if merged.Price == "" {
		merged.Price = secondary.Price
	}
	if merged.AlcoholContent == "" {
		merged.AlcoholContent = secondary.AlcoholContent
	}

	merged.Description = mergeDescriptions(primary.Description, secondary.Description)
	merged.SourceFile = mergeSources(a, b)
	merged.Name = chooseName(a, b, primary)

	primaryChosen := "a"
	if !primaryIsA {
		primaryChosen = "b"
	}
	decision := models.MergeDecision{
		NameA:         a.Name,
		NameB:         b.Name,
		JPScoreA:      jpA,
		JPScoreB:      jpB,
		PrimaryChosen: primaryChosen,
		FinalName:     merged.Name,
	}

	return merged, decision
}

// choosePrimary picks the base record. Any Japanese content beats none; more
// beats less; only at equal scores does field completeness decide, and a is
// the final tiebreak.
func choosePrimary(a, b models.WineRecord, jpA, jpB int) (primary, secondary models.WineRecord, primaryIsA bool) {
	switch {
	case jpA > 0 && jpB == 0:
		return a, b, true
	case jpB > 0 && jpA == 0:
		return b, a, false
	case jpA != jpB:
		if jpA > jpB {
			return a, b, true
		}
		return b, a, false
	default:
		if b.OptionalFieldCount() > a.OptionalFieldCount() {
			return b, a, false
		}
		return a, b, true
	}
}

// preferJapaneseOrFill resolves a field conflict: fill from the other side
// when one is empty; otherwise Japanese script wins, then length, then the
// primary value.
func preferJapaneseOrFill(primaryVal, secondaryVal string) string {
	if primaryVal == "" {
		return secondaryVal
	}
	if secondaryVal == "" {
		return primaryVal
	}

	primaryJP := japanese.ContainsJapanese(primaryVal)
	secondaryJP := japanese.ContainsJapanese(secondaryVal)
	switch {
	case secondaryJP && !primaryJP:
		return secondaryVal
	case primaryJP && !secondaryJP:
		return primaryVal
	default:
		if len(secondaryVal) > len(primaryVal) {
			return secondaryVal
		}
		return primaryVal
	}
}

// mergeDescriptions concatenates the distinct non-empty descriptions,
// primary first.
func mergeDescriptions(primaryDesc, secondaryDesc string) string {
	var parts []string
	if d := strings.TrimSpace(primaryDesc); d != "" {
		parts = append(parts, d)
	}
	if d := strings.TrimSpace(secondaryDesc); d != "" {
		dup := false
		for _, p := range parts {
			if p == d {
				dup = true
				break
			}
		}
		if !dup {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, " | ")
}

// mergeSources unions the source tokens of both inputs in first-seen order.
func mergeSources(a, b models.WineRecord) string {
	seen := make(map[string]bool)
	var sources []string
	for _, src := range append(a.Sources(), b.Sources()...) {
		if !seen[src] {
			seen[src] = true
			sources = append(sources, src)
		}
	}
	return strings.Join(sources, ", ")
}

// chooseName resolves the merged name independently of the primary choice,
// on the raw a/b inputs. Japanese always wins; between two Japanese names
// the longer one; between two Latin names a >20% length advantage, then
// wine-term counts, then a.
func chooseName(a, b, primary models.WineRecord) string {
	aJP := japanese.ContainsJapanese(a.Name)
	bJP := japanese.ContainsJapanese(b.Name)

	switch {
	case aJP && !bJP:
		return a.Name
	case bJP && !aJP:
		return b.Name
	case aJP && bJP:
		if len(a.Name) > len(b.Name) {
			return a.Name
		}
		if len(b.Name) > len(a.Name) {
			return b.Name
		}
		return primary.Name
	}

	if float64(len(b.Name)) > float64(len(a.Name))*1.2 {
		return b.Name
	}
	if float64(len(a.Name)) > float64(len(b.Name))*1.2 {
		return a.Name
	}

	aTerms := countNameTerms(a.Name)
	bTerms := countNameTerms(b.Name)
	if bTerms > aTerms {
		return b.Name
	}
	return a.Name
}

func countNameTerms(name string) int {
	lower := strings.ToLower(name)
	n := 0
	for _, term := range nameTerms {
		if strings.Contains(lower, term) {
			n++
		}
	}
	return n
}
