package services

import (
	"regexp"
	"sort"
	"strings"

	"card-arbitrage/models"
	"card-arbitrage/utils"
)

// setCodeRegexp captures a set code and card number like "LOB-001".
// Japanese listings sometimes use a full-width hyphen or a middle dot
// as the separator.
var setCodeRegexp = regexp.MustCompile(`([A-Z]{2,4})[-‐－・](\d{3})`)

// canonicalNames maps well-known Japanese card names to their English
// canonical form. Longest phrases are tried first so that partial
// substrings cannot shadow a longer match.
var canonicalNames = map[string]string{
	"青眼の白龍":             "Blue-Eyes White Dragon",
	"ブルーアイズホワイトドラゴン":    "Blue-Eyes White Dragon",
	"ブラック・マジシャン":        "Dark Magician",
	"混沌の黒魔術師":           "Dark Magician of Chaos",
	"真紅眼の黒竜":            "Red-Eyes Black Dragon",
	"レッドアイズ・ブラック・ドラゴン": "Red-Eyes Black Dragon",
	"カオス・ソルジャー":         "Black Luster Soldier",
	"エクゾディア":            "Exodia",
	"サイバー・ドラゴン":         "Cyber Dragon",
	"E・HERO ネオス":        "Elemental HERO Neos",
	"スターダスト・ドラゴン":       "Stardust Dragon",
	"ブラックローズ・ドラゴン":      "Black Rose Dragon",
}

// nameStopwords are marketplace boilerplate stripped from titles when no
// canonical name matches.
var nameStopwords = []string{
	"遊戯王", "yu-gi-oh", "カード", "card", "auction",
	"まとめ", "セット", "set", "パック", "pack", "未開封", "unopened",
	"新品", "未使用", "中古", "使用済み", "プレイ済み",
	"limited", "edition", "1st", "初版", "美品",
}

type keywordEntry struct {
	value  string
	tokens []string
}

// editionTable is checked in order; the first entry with a matching token wins.
var editionTable = []keywordEntry{
	{string(models.EditionFirst), []string{"1st", "first edition", "初版"}},
	{string(models.EditionUnlimited), []string{"unlimited", "無制限", "再版"}},
}

// rarityTable is ordered from rarest to commonest so that "ultra rare"
// is never mis-captured by the broader "rare" entry.
var rarityTable = []keywordEntry{
	{"prismatic-rare", []string{"prismatic", "プリズマティック"}},
	{"ghost-rare", []string{"ghost rare", "ゴーストレア"}},
	{"ultimate-rare", []string{"ultimate rare", "アルティメットレア", "レリーフ"}},
	{"secret-rare", []string{"secret rare", "secret", "シークレット"}},
	{"ultra-rare", []string{"ultra rare", "ultra", "ウルトラ"}},
	{"super-rare", []string{"super rare", "スーパーレア", "スーパー"}},
	{"rare", []string{"rare", "レア"}},
	{"common", []string{"common", "コモン"}},
}

var regionTable = []keywordEntry{
	{string(models.RegionJapanese), []string{"japanese", "日本語版", "日本語", "日版"}},
	{string(models.RegionEnglish), []string{"english", "英語版", "英語", "英版"}},
	{string(models.RegionAsian), []string{"asian", "asia", "アジア"}},
	{string(models.RegionKorean), []string{"korean", "韓国版", "韓国", "韓版"}},
}

// Extractor parses free-text listing titles into semantic card fields.
// Extraction is best-effort: a missing pattern yields an empty field,
// never an error.
type Extractor struct {
	logger *utils.Logger

	// canonical phrases sorted longest-first, computed once.
	phrases []string
}

// NewExtractor creates an Extractor with the given logger.
func NewExtractor(logger *utils.Logger) *Extractor {
	phrases := make([]string, 0, len(canonicalNames))
	for jp := range canonicalNames {
		phrases = append(phrases, jp)
	}
	sort.Slice(phrases, func(i, j int) bool {
		return len(phrases[i]) > len(phrases[j])
	})

	return &Extractor{logger: logger, phrases: phrases}
}

// Extract parses a title into CardInfo. It never fails; every field is
// optional downstream.
func (e *Extractor) Extract(title string) models.CardInfo {
	info := models.CardInfo{
		Edition: models.EditionUnknown,
		Region:  models.RegionUnknown,
	}

	lower := strings.ToLower(title)

	if m := setCodeRegexp.FindStringSubmatch(title); m != nil {
		info.SetCode = m[1]
		info.CardNumber = m[2]
	}

	if v := matchKeywordTable(editionTable, lower); v != "" {
		info.Edition = models.Edition(v)
	}
	info.Rarity = matchKeywordTable(rarityTable, lower)
	if v := matchKeywordTable(regionTable, lower); v != "" {
		info.Region = models.Region(v)
	}

	info.CardName = e.extractName(title, info.SetCode)

	return info
}

// extractName resolves the display name: canonical dictionary first
// (longest match wins), then the raw title with boilerplate stripped.
func (e *Extractor) extractName(title, setCode string) string {
	for _, phrase := range e.phrases {
		if strings.Contains(title, phrase) {
			return canonicalNames[phrase]
		}
	}

	name := title
	for _, word := range nameStopwords {
		name = removeFold(name, word)
	}
	if setCode != "" {
		if m := setCodeRegexp.FindString(name); m != "" {
			name = strings.Replace(name, m, "", 1)
		}
	}
	name = strings.Join(strings.Fields(name), " ")
	return strings.TrimSpace(name)
}

// matchKeywordTable returns the value of the first entry with a token
// contained in the lowercased text.
func matchKeywordTable(table []keywordEntry, lower string) string {
	for _, entry := range table {
		for _, token := range entry.tokens {
			if strings.Contains(lower, token) {
				return entry.value
			}
		}
	}
	return ""
}

// removeFold strips every case-insensitive occurrence of word from s.
func removeFold(s, word string) string {
	lower := strings.ToLower(s)
	word = strings.ToLower(word)
	for {
		i := strings.Index(lower, word)
		if i < 0 {
			return s
		}
		s = s[:i] + s[i+len(word):]
		lower = lower[:i] + lower[i+len(word):]
	}
}
