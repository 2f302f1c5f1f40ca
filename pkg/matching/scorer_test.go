package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
)

func TestSimilarity_Bounds(t *testing.T) {
	scorer := NewScorer()

	pairs := [][2]models.WineRecord{
		{{Name: "ボニトゥラ NV"}, {Name: "CASA DE FONTE PEQUENA BONITURA NV"}},
		{{Name: "シャブリ"}, {Name: "Chablis"}},
		{{Name: "Cremant de Loire"}, {Name: "Cremant de Loire"}},
		{{Name: "Monte Verde Alto"}, {Name: "completely unrelated"}},
		{{Name: "ピノ・ノワール"}, {Name: "Pinot Noir"}},
	}

	for _, pair := range pairs {
		score := scorer.Similarity(pair[0], pair[1])
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	scorer := NewScorer()

	pairs := [][2]models.WineRecord{
		{{Name: "ボニトゥラ NV"}, {Name: "CASA DE FONTE PEQUENA BONITURA NV"}},
		{{Name: "Petit Chablis"}, {Name: "Chablis Grand Cru 2019"}},
		{{Name: "Monte Verde Alto", Producer: "Alpha"}, {Name: "Monte Verde", Producer: "Alpha Beta"}},
		{{Name: "vin wine reserve loire"}, {Name: "noir grand loire petit"}},
	}

	for _, pair := range pairs {
		ab := scorer.Similarity(pair[0], pair[1])
		ba := scorer.Similarity(pair[1], pair[0])
		assert.InDelta(t, ab, ba, 1e-9, "similarity not symmetric for %q vs %q", pair[0].Name, pair[1].Name)
	}
}

// Normalized names of equal byte length leave no shorter side for the
// word-containment check to prefer; it must evaluate both directions so the
// result cannot depend on argument order.
func TestSimilarity_SymmetricOnEqualLengthNames(t *testing.T) {
	scorer := NewScorer()

	// Both normalize unchanged, to strings of identical length. Every word
	// of the first except "loire" is containment noise, so only the
	// first-to-second direction finds all meaningful words contained.
	a := models.WineRecord{Name: "vin wine reserve loire"}
	b := models.WineRecord{Name: "noir grand loire petit"}

	ab := scorer.Similarity(a, b)
	ba := scorer.Similarity(b, a)
	assert.InDelta(t, ab, ba, 1e-9)
	assert.GreaterOrEqual(t, ab, 0.85)
}

func TestSimilarity_SelfIsOne(t *testing.T) {
	scorer := NewScorer()

	records := []models.WineRecord{
		{Name: "ボニトゥラ NV", Country: "ポルトガル"},
		{Name: "Monte Verde", Producer: "Domaine Alpha"},
		{Name: "Cremant de Loire Brut", Region: "Loire"},
	}

	for _, r := range records {
		assert.InDelta(t, 1.0, scorer.Similarity(r, r), 1e-9, "self similarity for %q", r.Name)
	}
}

// Cross-language matching works only through the bilingual tables. シャブリ
// alone has no table entry (only プティ・シャブリ does), so the bare pair must
// stay below the merge threshold.
func TestSimilarity_BareKatakanaWithoutTableEntry(t *testing.T) {
	scorer := NewScorer()

	score := scorer.Similarity(
		models.WineRecord{Name: "シャブリ"},
		models.WineRecord{Name: "Chablis"},
	)
	assert.Less(t, score, 0.5)
}

func TestSimilarity_TransliterationTableHit(t *testing.T) {
	scorer := NewScorer()

	t.Run("exact table entry escalates past 0.9", func(t *testing.T) {
		score := scorer.Similarity(
			models.WineRecord{Name: "ボニトゥラ NV", Country: "ポルトガル"},
			models.WineRecord{Name: "CASA DE FONTE PEQUENA BONITURA NV"},
		)
		assert.GreaterOrEqual(t, score, 0.9)
	})

	t.Run("entry matches inside a longer latin name", func(t *testing.T) {
		score := scorer.Similarity(
			models.WineRecord{Name: "プティ・シャブリ"},
			models.WineRecord{Name: "Domaine Alpha Petit Chablis 2022"},
		)
		assert.GreaterOrEqual(t, score, 0.9)
	})

	t.Run("shared grape term alone escalates less", func(t *testing.T) {
		score := scorer.Similarity(
			models.WineRecord{Name: "シャルドネ・スペシャル"},
			models.WineRecord{Name: "Maison Beta Chardonnay"},
		)
		assert.GreaterOrEqual(t, score, 0.8)
	})
}

func TestSimilarity_IdenticalNames(t *testing.T) {
	scorer := NewScorer()

	score := scorer.Similarity(
		models.WineRecord{Name: "Cremant de Loire Brut", Producer: "Domaine Alpha", Description: "Crisp."},
		models.WineRecord{Name: "Cremant de Loire Brut", Producer: "Maison Beta", Description: "Apple notes."},
	)
	assert.GreaterOrEqual(t, score, 0.9)
}

func TestSimilarity_LooseProducerFloor(t *testing.T) {
	t.Run("shared producer keyword sets a floor", func(t *testing.T) {
		scorer := NewScorer()
		score := scorer.Similarity(
			models.WineRecord{Name: "Monte Verde", Producer: "Quinta Azul"},
			models.WineRecord{Name: "Luna Rossa", Producer: "Quinta Azul"},
		)
		assert.GreaterOrEqual(t, score, 0.7)
	})

	t.Run("floor is configurable", func(t *testing.T) {
		scorer := NewScorerWithConfig(Config{LooseProducerScore: 0.6})
		score := scorer.Similarity(
			models.WineRecord{Name: "Monte Verde", Producer: "Quinta Azul"},
			models.WineRecord{Name: "Luna Rossa", Producer: "Quinta Azul"},
		)
		assert.GreaterOrEqual(t, score, 0.6)
	})

	t.Run("no floor without shared keywords", func(t *testing.T) {
		scorer := NewScorer()
		score := scorer.Similarity(
			models.WineRecord{Name: "Monte Verde", Producer: "Quinta Azul"},
			models.WineRecord{Name: "Luna Rossa", Producer: "Bodega Blanca"},
		)
		assert.Less(t, score, 0.5)
	})
}

func TestSimilarity_NameDrivenWhenFieldsEmpty(t *testing.T) {
	scorer := NewScorer()

	// The empty optional fields contribute no signals; the score comes
	// entirely from the name and equals the fully-populated pairing.
	bare := models.WineRecord{Name: "Cremant de Loire Brut"}
	full := models.WineRecord{
		Name:         "Cremant de Loire Brut",
		Producer:     "Domaine Alpha",
		Country:      "France",
		Region:       "Loire",
		GrapeVariety: "Chenin Blanc",
		Description:  "Fine bubbles.",
	}

	score := scorer.Similarity(bare, full)
	assert.GreaterOrEqual(t, score, 0.9)
}

func TestExtractIdentity(t *testing.T) {
	t.Run("stop words dropped from keywords", func(t *testing.T) {
		id := ExtractIdentity(models.WineRecord{Name: "Domaine de la Grande Montagne"})
		assert.True(t, id.NameKeywords["grande"])
		assert.True(t, id.NameKeywords["montagne"])
		assert.False(t, id.NameKeywords["domaine"])
		assert.False(t, id.NameKeywords["de"])
	})

	t.Run("wine type tags from normalized name", func(t *testing.T) {
		id := ExtractIdentity(models.WineRecord{Name: "Sparkling Rose Deluxe"})
		assert.True(t, id.WineTypeTags["sparkling"])
		assert.True(t, id.WineTypeTags["rose"])
	})

	t.Run("region tags cover region and country", func(t *testing.T) {
		id := ExtractIdentity(models.WineRecord{Name: "X", Region: "Loire", Country: "France"})
		assert.True(t, id.RegionTags["loire"])
		assert.True(t, id.RegionTags["france"])
	})

	t.Run("normalized name recorded", func(t *testing.T) {
		id := ExtractIdentity(models.WineRecord{Name: "ボニトゥラ NV"})
		assert.Equal(t, "ボニトゥラ", id.NormalizedName)
		assert.Equal(t, "ボニトゥラ NV", id.OriginalName)
	})
}
