// Package matching implements wine record identity extraction and similarity
// scoring across Japanese and Latin scripts.
package matching

import (
	"regexp"
	"unicode/utf8"

	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
	"github.com/atsuyamaru/wine-ec-email-composer/pkg/normalizers"
)

// stopWords are tokens that carry no identity: articles, prepositions, and
// generic winery vocabulary.
var stopWords = map[string]bool{
	"de": true, "du": true, "des": true, "le": true, "la": true, "les": true,
	"the": true, "and": true, "et": true, "von": true, "vom": true,
	"della": true, "del": true, "di": true, "da": true,
	"wine": true, "vin": true, "vino": true, "domaine": true, "chateau": true,
	"estate": true, "winery": true, "cave": true, "maison": true,
}

// wineTypeRes match style indicators in a normalized name: sparkling styles,
// grape varieties, colors, sweetness, and quality tiers.
var wineTypeRes = []*regexp.Regexp{
	regexp.MustCompile(`(champagne|cremant|cava|prosecco|sparkling)`),
	regexp.MustCompile(`(chardonnay|sauvignon|pinot|merlot|cabernet|syrah|shiraz)`),
	regexp.MustCompile(`(rouge|blanc|rose|red|white|pink)`),
	regexp.MustCompile(`(brut|sec|demi|doux|dry|sweet)`),
	regexp.MustCompile(`(reserve|premium|grand|cuvee)`),
}

// ExtractIdentity derives the comparison-ready identity of a record. Pure
// function of its input; identities are recomputed per comparison batch and
// never cached across calls.
func ExtractIdentity(w models.WineRecord) models.WineIdentity {
	normalizedName := normalizers.NormalizeWineName(w.Name)

	wineTypes := make(map[string]bool)
	for _, re := range wineTypeRes {
		for _, m := range re.FindAllString(normalizedName, -1) {
			wineTypes[m] = true
		}
	}

	regions := make(map[string]bool)
	if w.Region != "" {
		regions[normalizers.NormalizeWineName(w.Region)] = true
	}
	if w.Country != "" {
		regions[normalizers.NormalizeWineName(w.Country)] = true
	}

	grape := ""
	if w.GrapeVariety != "" {
		grape = normalizers.NormalizeWineName(w.GrapeVariety)
	}

	producerKeywords := make(map[string]bool)
	if w.Producer != "" {
		producerKeywords = keywords(normalizers.NormalizeWineName(w.Producer))
	}

	return models.WineIdentity{
		NameKeywords:     keywords(normalizedName),
		ProducerKeywords: producerKeywords,
		WineTypeTags:     wineTypes,
		RegionTags:       regions,
		GrapeVariety:     grape,
		NormalizedName:   normalizedName,
		OriginalName:     w.Name,
	}
}

// keywords tokenizes a normalized string, keeping tokens longer than two
// runes that are not stop words.
func keywords(normalized string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range splitWords(normalized) {
		if utf8.RuneCountInString(w) > 2 && !stopWords[w] {
			words[w] = true
		}
	}
	return words
}
