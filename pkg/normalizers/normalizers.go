// Package normalizers provides string normalization for wine record matching
package normalizers

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/atsuyamaru/wine-ec-email-composer/pkg/japanese"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	Register("lowercase", Lowercase)
	Register("trim", Trim)
	Register("collapse_whitespace", CollapseWhitespace)
	Register("strip_accents", StripAccents)
	Register("wine_name", NormalizeWineName)
	Register("wine_name_conservative", NormalizeWineNameConservative)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// CollapseWhitespace reduces whitespace runs to single spaces and trims
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// StripAccents decomposes the string and drops combining marks,
// so "Côtes" and "Cotes" compare equal
func StripAccents(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// Japanese path: trailing vintage/NV markers and color suffixes. Only the
// aggressive variant strips these.
var japaneseSuffixRes = []*regexp.Regexp{
	regexp.MustCompile(`\s*NV$`),
	regexp.MustCompile(`\s*[0-9]{4}$`),
	regexp.MustCompile(`\s*赤$`),
	regexp.MustCompile(`\s*白$`),
	regexp.MustCompile(`\s*ロゼ$`),
}

// Latin path: trailing wine-style descriptors, stripped group by group.
var wineSuffixRes = []*regexp.Regexp{
	regexp.MustCompile(`\s+(nv|non vintage|brut|sec|demi-sec|doux|rouge|blanc|rose|vin|wine)$`),
	regexp.MustCompile(`\s+(zero|dosage zero|extra brut|extra dry)$`),
	regexp.MustCompile(`\s+(reserve|reserva|gran reserva|riserva)$`),
	regexp.MustCompile(`\s+(cuvee|special|selection|premium|classic)$`),
}

var (
	trailingYearRe    = regexp.MustCompile(`\s+\d{2,4}$`)
	leadingArticleRe  = regexp.MustCompile(`^(le|la|les|de|du|des|the|a|an|von|vom|zur|della|del|di|da)\s+`)
	embeddedArticleRe = regexp.MustCompile(`\s+(de|du|des|von|vom|zur|della|del|di|da)\s+`)
	appellationRe     = regexp.MustCompile(`\s+(aoc|aop|doc|docg|igp|vdp|appellation)\s*`)
	japanesePunctRe   = regexp.MustCompile(`[()（）\[\]【】“”‘’'"]`)
	latinPunctKeepRe  = regexp.MustCompile(`[^\pL\pN_\s\-.]`)
)

// NormalizeWineName canonicalizes a wine name for comparison. Japanese-script
// input keeps its characters untouched apart from whitespace, bracket
// punctuation, and (in this aggressive variant) trailing vintage/color
// markers; Latin-script input is accent-stripped, lowercased, and shorn of
// style suffixes, years, articles, and appellation abbreviations.
//
// The result is a fixpoint: NormalizeWineName(NormalizeWineName(s)) ==
// NormalizeWineName(s) for all s.
func NormalizeWineName(raw string) string {
	return normalizeWineName(raw, true)
}

// NormalizeWineNameConservative leaves Japanese trailing vintage and color
// suffixes in place. Kept for callers that need the earlier, less aggressive
// comparison behavior.
func NormalizeWineNameConservative(raw string) string {
	return normalizeWineName(raw, false)
}

func normalizeWineName(raw string, stripJapaneseSuffixes bool) string {
	// Punctuation removal can expose new trailing suffixes ("(No. 3)"
	// becomes "no. 3", which then sheds the year-like "3"), so the whole
	// pipeline iterates until the string stops changing.
	s := raw
	for {
		next := normalizeWineNameOnce(s, stripJapaneseSuffixes)
		if next == s {
			return s
		}
		s = next
	}
}

func normalizeWineNameOnce(raw string, stripJapaneseSuffixes bool) string {
	if raw == "" {
		return ""
	}

	s := htmlTagRe.ReplaceAllString(raw, "")

	// Branch on script. A mixed string takes the Japanese path; katakana
	// transliterations must not be accent-stripped or lowercased away.
	if japanese.ContainsJapanese(s) {
		s = CollapseWhitespace(s)
		if stripJapaneseSuffixes {
			s = stripToFixpoint(s, japaneseSuffixRes)
		}
	} else {
		s = StripAccents(s)
		s = strings.ToLower(strings.TrimSpace(s))
		s = CollapseWhitespace(s)
		s = latinStripToFixpoint(s)
	}

	s = CollapseWhitespace(s)

	// Mid-dot and long-vowel marks are meaningful in katakana names and
	// survive; bracket punctuation does not.
	if japanese.ContainsJapanese(s) {
		s = japanesePunctRe.ReplaceAllString(s, "")
	} else {
		s = latinPunctKeepRe.ReplaceAllString(s, "")
	}

	return CollapseWhitespace(s)
}

// stripToFixpoint applies the suffix patterns repeatedly until the string
// stops changing. A single pass is not enough ("ボルドー 2019 赤" sheds the
// color first and the vintage on the next round), and iterating to a
// fixpoint is what makes the whole normalization idempotent.
func stripToFixpoint(s string, res []*regexp.Regexp) string {
	for {
		prev := s
		for _, re := range res {
			s = re.ReplaceAllString(s, "")
		}
		if s == prev {
			return s
		}
	}
}

func latinStripToFixpoint(s string) string {
	for {
		prev := s
		for _, re := range wineSuffixRes {
			s = re.ReplaceAllString(s, "")
		}
		s = trailingYearRe.ReplaceAllString(s, "")
		s = leadingArticleRe.ReplaceAllString(s, " ")
		s = embeddedArticleRe.ReplaceAllString(s, " ")
		s = appellationRe.ReplaceAllString(s, " ")
		s = CollapseWhitespace(s)
		if s == prev {
			return s
		}
	}
}
