package matching

import (
	"strings"
	"unicode/utf8"

	"github.com/atsuyamaru/wine-ec-email-composer/pkg/japanese"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/normalizers"
)

// Config contains configuration for the similarity scorer.
type Config struct {
	// LooseProducerScore is the escalation floor applied when the two
	// records' producer word sets intersect at all.
	LooseProducerScore float64
}

// DefaultConfig returns the scorer defaults.
func DefaultConfig() Config {
	return Config{
		LooseProducerScore: 0.7,
	}
}

// Base signal weights for the weighted-evidence combination. Signals that
// cannot be computed for a pair are excluded from the numerator and the
// denominator, not scored as zero.
const (
	nameOverlapWeight = 0.4
	nameBoostWeight   = 0.2
	producerWeight    = 0.2
	wineTypeWeight    = 0.15
	regionWeight      = 0.1
	grapeWeight       = 0.05
	substringWeight   = 0.1
)

// Scorer computes similarity between wine records. Scores are symmetric and
// bounded to [0, 1]. Single-signal thresholds are fragile across
// Japanese/Latin name pairs, so a weighted base score is followed by an
// escalation ladder: strong specific evidence (an exact transliteration hit)
// raises the score to a fixed ceiling and is never diluted by weak general
// evidence.
type Scorer struct {
	cfg Config
}

// NewScorer creates a Scorer with default configuration.
func NewScorer() *Scorer {
	return &Scorer{cfg: DefaultConfig()}
}

// NewScorerWithConfig creates a Scorer with explicit configuration.
func NewScorerWithConfig(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Similarity scores two wine records in [0, 1].
func (s *Scorer) Similarity(a, b models.WineRecord) float64 {
	idA := ExtractIdentity(a)
	idB := ExtractIdentity(b)
	return s.SimilarityFromIdentities(a, b, idA, idB)
}

// SimilarityFromIdentities scores two records whose identities the caller
// already extracted. The deduplicator uses this to extract each identity once
// per batch instead of once per pair.
func (s *Scorer) SimilarityFromIdentities(a, b models.WineRecord, idA, idB models.WineIdentity) float64 {
	similarity := s.identitySimilarity(idA, idB)

	// Escalation ladder. Each rule can only raise the score.
	if ts := s.transliterationScore(a.Name, b.Name, idA.NormalizedName, idB.NormalizedName); ts > similarity {
		similarity = ts
	}
	if ss := s.substringScore(idA.NormalizedName, idB.NormalizedName); ss > similarity {
		similarity = ss
	}
	if ws := s.sharedLongWordScore(idA.NormalizedName, idB.NormalizedName); ws > similarity {
		similarity = ws
	}
	if len(idA.ProducerKeywords) > 0 && len(idB.ProducerKeywords) > 0 &&
		intersectionSize(idA.ProducerKeywords, idB.ProducerKeywords) > 0 &&
		s.cfg.LooseProducerScore > similarity {
		similarity = s.cfg.LooseProducerScore
	}

	if similarity > 1.0 {
		similarity = 1.0
	}
	if similarity < 0.0 {
		similarity = 0.0
	}
	return similarity
}

// signal is one piece of weighted evidence.
type signal struct {
	score  float64
	weight float64
}

// identitySimilarity is the weighted base score over the two identities.
func (s *Scorer) identitySimilarity(a, b models.WineIdentity) float64 {
	var signals []signal

	// Name keyword overlap is the dominant signal, with a flat bonus when
	// the intersection covers most of the smaller keyword set.
	if len(a.NameKeywords) > 0 && len(b.NameKeywords) > 0 {
		inter := intersectionSize(a.NameKeywords, b.NameKeywords)
		union := len(a.NameKeywords) + len(b.NameKeywords) - inter
		overlap := 0.0
		if union > 0 {
			overlap = float64(inter) / float64(union)
		}
		signals = append(signals, signal{overlap, nameOverlapWeight})

		smaller := min(len(a.NameKeywords), len(b.NameKeywords))
		if float64(inter) >= float64(smaller)*0.7 {
			signals = append(signals, signal{1.0, nameBoostWeight})
		}
	}

	if len(a.ProducerKeywords) > 0 && len(b.ProducerKeywords) > 0 {
		inter := intersectionSize(a.ProducerKeywords, b.ProducerKeywords)
		union := len(a.ProducerKeywords) + len(b.ProducerKeywords) - inter
		overlap := 0.0
		if union > 0 {
			overlap = float64(inter) / float64(union)
		}
		signals = append(signals, signal{overlap, producerWeight})
	}

	if intersectionSize(a.WineTypeTags, b.WineTypeTags) > 0 {
		signals = append(signals, signal{1.0, wineTypeWeight})
	}

	if intersectionSize(a.RegionTags, b.RegionTags) > 0 {
		signals = append(signals, signal{1.0, regionWeight})
	}

	if a.GrapeVariety != "" && a.GrapeVariety == b.GrapeVariety {
		signals = append(signals, signal{1.0, grapeWeight})
	}

	// Word containment between normalized names, for cross-language pairs
	// where one side carries a producer prefix.
	if utf8.RuneCountInString(a.NormalizedName) > 5 && utf8.RuneCountInString(b.NormalizedName) > 5 {
		shorter, longer := a.NormalizedName, b.NormalizedName
		if len(shorter) > len(longer) {
			shorter, longer = longer, shorter
		}
		shortWords := allWordSet(shorter)
		longWords := allWordSet(longer)
		if len(shortWords) > 0 {
			containment := float64(intersectionSize(shortWords, longWords)) / float64(len(shortWords))
			if containment > 0.5 {
				signals = append(signals, signal{containment, substringWeight})
			}
		}
	}

	if len(signals) == 0 {
		return 0.0
	}

	var weightedSum, totalWeight float64
	for _, sig := range signals {
		weightedSum += sig.score * sig.weight
		totalWeight += sig.weight
	}
	if totalWeight == 0 {
		return 0.0
	}
	return weightedSum / totalWeight
}

// transliterationScore checks the bilingual tables. An exact table hit
// escalates to 0.95, a partial grape-term pair to 0.8, a romanization hit
// to 0.9.
func (s *Scorer) transliterationScore(rawA, rawB, normA, normB string) float64 {
	if rawA == "" || rawB == "" {
		return 0.0
	}

	for jp, variants := range transliterationPairs {
		jpNorm := normalizers.NormalizeWineName(jp)
		for _, en := range variants {
			if (strings.Contains(normA, jpNorm) && strings.Contains(normB, en)) ||
				(strings.Contains(normB, jpNorm) && strings.Contains(normA, en)) {
				return 0.95
			}
		}
	}

	for _, pair := range grapeTermPairs {
		if (strings.Contains(rawA, pair.jp) && strings.Contains(normB, pair.en)) ||
			(strings.Contains(rawB, pair.jp) && strings.Contains(normA, pair.en)) {
			return 0.8
		}
	}

	// Cross-script pair with no table hit: try romanized approximations.
	if japanese.ContainsJapanese(rawA) != japanese.ContainsJapanese(rawB) {
		jpNorm, enNorm := normA, normB
		if japanese.ContainsJapanese(rawB) {
			jpNorm, enNorm = normB, normA
		}
		for jp, romanized := range romanizationMap {
			if strings.Contains(jpNorm, jp) && strings.Contains(enNorm, romanized) {
				return 0.9
			}
		}
	}

	return 0.0
}

// substringScore handles producer+wine vs wine-only names: a word-overlap
// ratio against the smaller word set, with a complete-containment fallback
// for low ratios.
func (s *Scorer) substringScore(normA, normB string) float64 {
	if normA == "" || normB == "" {
		return 0.0
	}

	wordsA := wordSet(normA)
	wordsB := wordSet(normB)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	inter := intersectionSize(wordsA, wordsB)
	if inter == 0 {
		return 0.0
	}

	ratio := float64(inter) / float64(min(len(wordsA), len(wordsB)))
	switch {
	case ratio >= 0.8:
		return 0.9
	case ratio >= 0.6:
		return 0.8
	case ratio >= 0.4:
		return 0.7
	}

	// Low ratio: check whether every meaningful word of one name appears
	// somewhere in the other. Both directions are evaluated and the better
	// one wins, so the score never depends on argument order, including
	// when the two names tie on length.
	if allMeaningfulWordsContained(normA, normB) || allMeaningfulWordsContained(normB, normA) {
		return 0.85
	}

	return 0.0
}

// allMeaningfulWordsContained reports whether every meaningful word of
// needle appears as a substring of haystack. Words in containmentNoise and
// words of two runes or fewer identify nothing and are skipped.
func allMeaningfulWordsContained(needle, haystack string) bool {
	var meaningful []string
	for _, w := range splitWords(needle) {
		if !containmentNoise[w] && utf8.RuneCountInString(w) > 2 {
			meaningful = append(meaningful, w)
		}
	}
	if len(meaningful) == 0 {
		return false
	}
	for _, w := range meaningful {
		if !strings.Contains(haystack, w) {
			return false
		}
	}
	return true
}

// sharedLongWordScore escalates when the names share a word longer than
// three runes and either name mentions a salient wine or region term.
func (s *Scorer) sharedLongWordScore(normA, normB string) float64 {
	if normA == "" || normB == "" {
		return 0.0
	}

	wordsA := longWordSet(normA)
	wordsB := longWordSet(normB)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	shared := intersectionSize(wordsA, wordsB)
	if shared == 0 {
		return 0.0
	}

	for _, term := range keyWineTerms {
		if strings.Contains(normA, term) || strings.Contains(normB, term) {
			return float64(shared) / float64(min(len(wordsA), len(wordsB))) * 0.9
		}
	}
	return 0.0
}

func splitWords(s string) []string {
	return strings.Fields(s)
}

// allWordSet returns every whitespace-delimited word.
func allWordSet(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range splitWords(s) {
		words[w] = true
	}
	return words
}

// wordSet returns the words longer than two runes.
func wordSet(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range splitWords(s) {
		if utf8.RuneCountInString(w) > 2 {
			words[w] = true
		}
	}
	return words
}

// longWordSet returns the words longer than three runes.
func longWordSet(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range splitWords(s) {
		if utf8.RuneCountInString(w) > 3 {
			words[w] = true
		}
	}
	return words
}

func intersectionSize(a, b map[string]bool) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for w := range a {
		if b[w] {
			n++
		}
	}
	return n
}
