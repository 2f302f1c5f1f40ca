package matching

// Bilingual vocabulary for Japanese/Latin wine name matching. These are
// static lookup tables, not configuration: a miss here means the pair falls
// back to the general word-overlap heuristics.

// transliterationPairs maps a Japanese wine, grape, or region term to its
// Latin spellings. Matching is substring-based in either direction, so a
// producer-prefixed Latin name still pairs with a bare katakana name.
var transliterationPairs = map[string][]string{
	// Wine and grape names
	"ボニトゥラ":                {"bonitura"},
	"ピノ・グリージョ":             {"pinot grigio", "pinot gris"},
	"コート・ド・ガスコーニュ":         {"cotes de gascogne", "côtes de gascogne"},
	"モンテ・アラヤ・テンプラニーリョ・ブランコ": {"monte araya tempranillo blanco"},
	"プティ・シャブリ":             {"petit chablis"},
	"トスカーナ・ロサート":           {"toscana rosato"},
	"アルマ・デ・チリ":             {"alma de chile"},
	"ピノ・ノワール":              {"pinot noir"},
	"カベルネ・ソーヴィニヨン":         {"cabernet sauvignon"},
	"ラソン":                  {"razon"},
	"シャルドネ":                {"chardonnay"},
	"メルロー":                 {"merlot"},
	"リースリング":               {"riesling"},
	"ソーヴィニヨン・ブラン":          {"sauvignon blanc"},
	"シラー":                  {"syrah", "shiraz"},

	// Countries and regions
	"フランス":     {"france", "french"},
	"イタリア":     {"italy", "italian"},
	"スペイン":     {"spain", "spanish"},
	"ドイツ":      {"germany", "german"},
	"アメリカ":     {"america", "american", "usa"},
	"カリフォルニア":  {"california"},
	"ナパ・ヴァレー":  {"napa valley"},
	"ソノマ":      {"sonoma"},
	"ボルドー":     {"bordeaux"},
	"ブルゴーニュ":   {"burgundy", "bourgogne"},
	"ロワール":     {"loire"},
	"シャンパーニュ":  {"champagne"},
	"プロヴァンス":   {"provence"},
	"ピエモンテ":    {"piemonte", "piedmont"},
	"トスカーナ":    {"toscana", "tuscany"},
	"リオハ":      {"rioja"},
}

// grapeTermPairs are partial key-term equivalences. A hit escalates to 0.8,
// weaker than a full transliterationPairs hit because a shared grape alone
// does not identify a wine.
var grapeTermPairs = []struct {
	jp string
	en string
}{
	{"ピノ", "pinot"},
	{"シャルドネ", "chardonnay"},
	{"カベルネ", "cabernet"},
	{"メルロー", "merlot"},
	{"シラー", "syrah"},
	{"リースリング", "riesling"},
	{"ソーヴィニヨン", "sauvignon"},
}

// romanizationMap approximates katakana readings for cross-script pairs that
// the exact tables miss.
var romanizationMap = map[string]string{
	"ボニトゥラ":  "bonitura",
	"ピノ":     "pino",
	"シャルドネ":  "sharudone",
	"カベルネ":   "kaberune",
	"メルロー":   "meruro",
	"リースリング": "riisuringu",
}

// keyWineTerms are salient wine and region words; sharing a long word with
// one of these present makes a match much more likely to be the same wine.
var keyWineTerms = []string{
	"cremant", "loire", "champagne", "chablis", "bordeaux", "burgundy",
	"sancerre", "bonitura", "tempranillo", "cabernet", "pinot", "chardonnay",
}

// containmentNoise are words excluded from the complete-containment check;
// they appear in too many names to help identification.
var containmentNoise = map[string]bool{
	"wine": true, "vin": true, "vino": true, "casa": true,
	"de": true, "del": true, "della": true, "du": true,
	"grand": true, "petit": true, "reserve": true, "reserva": true,
}
