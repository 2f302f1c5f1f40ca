// Package japanese classifies Japanese script content in wine records.
package japanese

import (
	"html"
	"unicode"

	"github.com/atsuyamaru/wine-ec-email-composer/pkg/models"
)

// scriptRanges are the code point ranges counted as Japanese. Half-width
// katakana and full-width ASCII variants are included because wine list PDFs
// mix all of them freely.
var scriptRanges = []struct{ lo, hi rune }{
	{0x3040, 0x309F}, // Hiragana
	{0x30A0, 0x30FF}, // Katakana
	{0x4E00, 0x9FAF}, // CJK Unified Ideographs
	{0x3400, 0x4DBF}, // CJK Extension A
	{0xFF66, 0xFF9F}, // Half-width Katakana
	{0x3000, 0x303F}, // CJK Symbols and Punctuation
	{0xFF01, 0xFF60}, // Full-width ASCII variants
}

// ContainsJapanese reports whether text has at least one Japanese character.
// HTML entities are unescaped first so markup artifacts like &nbsp; cannot
// mask or fake script content.
func ContainsJapanese(text string) bool {
	if text == "" {
		return false
	}

	for _, r := range html.UnescapeString(text) {
		if unicode.IsSpace(r) {
			continue
		}
		for _, rng := range scriptRanges {
			if r >= rng.lo && r <= rng.hi {
				return true
			}
		}
	}
	return false
}

// Field weights for ContentScore. The name weight dwarfs everything else on
// purpose: a Japanese wine name is decisive evidence of the authoritative
// record even when every other field is blank.
const (
	nameWeight        = 20
	producerWeight    = 3
	descriptionWeight = 3
	regionWeight      = 1
	countryWeight     = 1
	grapeWeight       = 1
)

// ContentScore scores how much Japanese content a record carries, as a
// weighted sum over its fields.
func ContentScore(w models.WineRecord) int {
	score := 0
	fields := []struct {
		value  string
		weight int
	}{
		{w.Name, nameWeight},
		{w.Producer, producerWeight},
		{w.Description, descriptionWeight},
		{w.Region, regionWeight},
		{w.Country, countryWeight},
		{w.GrapeVariety, grapeWeight},
	}
	for _, f := range fields {
		if f.value != "" && ContainsJapanese(f.value) {
			score += f.weight
		}
	}
	return score
}
