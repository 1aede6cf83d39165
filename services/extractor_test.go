package services

import (
	"testing"

	"card-arbitrage/models"
	"card-arbitrage/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func TestExtractSetCodeAndNumber(t *testing.T) {
	e := NewExtractor(newTestLogger())

	tests := []struct {
		title      string
		setCode    string
		cardNumber string
	}{
		{"LOB-001 Blue-Eyes White Dragon 1st Edition Ultra Rare", "LOB", "001"},
		{"遊戯王 MRD・060 真紅眼の黒竜", "MRD", "060"},
		{"Dark Magician SDK－005", "SDK", "005"},
		{"遊戯王 青眼の白龍 まとめ売り", "", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		info := e.Extract(tt.title)
		if info.SetCode != tt.setCode {
			t.Errorf("Extract(%q).SetCode = %q; want %q", tt.title, info.SetCode, tt.setCode)
		}
		if info.CardNumber != tt.cardNumber {
			t.Errorf("Extract(%q).CardNumber = %q; want %q", tt.title, info.CardNumber, tt.cardNumber)
		}
	}
}

func TestExtractEditionAndRarity(t *testing.T) {
	e := NewExtractor(newTestLogger())

	tests := []struct {
		title   string
		edition models.Edition
		rarity  string
	}{
		{"LOB-001 Blue-Eyes White Dragon 1st Edition Ultra Rare", models.EditionFirst, "ultra-rare"},
		{"遊戯王 ブラック・マジシャン 初版 シークレット", models.EditionFirst, "secret-rare"},
		{"Dark Magician unlimited super rare", models.EditionUnlimited, "super-rare"},
		{"遊戯王 青眼の白龍 レリーフ", models.EditionUnknown, "ultimate-rare"},
		{"ポケモンカード スーパーレア", models.EditionUnknown, "super-rare"},
		{"plain rare card", models.EditionUnknown, "rare"},
		{"no markers here", models.EditionUnknown, ""},
	}

	for _, tt := range tests {
		info := e.Extract(tt.title)
		if info.Edition != tt.edition {
			t.Errorf("Extract(%q).Edition = %q; want %q", tt.title, info.Edition, tt.edition)
		}
		if info.Rarity != tt.rarity {
			t.Errorf("Extract(%q).Rarity = %q; want %q", tt.title, info.Rarity, tt.rarity)
		}
	}
}

func TestExtractRegion(t *testing.T) {
	e := NewExtractor(newTestLogger())

	tests := []struct {
		title  string
		region models.Region
	}{
		{"青眼の白龍 日本語版", models.RegionJapanese},
		{"Blue-Eyes White Dragon English", models.RegionEnglish},
		{"遊戯王 旧アジア 青眼", models.RegionAsian},
		{"ブラック・マジシャン 韓国版", models.RegionKorean},
		{"no region marker", models.RegionUnknown},
	}

	for _, tt := range tests {
		info := e.Extract(tt.title)
		if info.Region != tt.region {
			t.Errorf("Extract(%q).Region = %q; want %q", tt.title, info.Region, tt.region)
		}
	}
}

func TestExtractCanonicalName(t *testing.T) {
	e := NewExtractor(newTestLogger())

	tests := []struct {
		title string
		name  string
	}{
		{"遊戯王 青眼の白龍 初期 美品", "Blue-Eyes White Dragon"},
		{"ブルーアイズホワイトドラゴン シークレット", "Blue-Eyes White Dragon"},
		{"遊戯王 ブラック・マジシャン レア", "Dark Magician"},
		// Longest match first: the "of Chaos" variant must not collapse
		// to plain Dark Magician.
		{"混沌の黒魔術師 スーパーレア", "Dark Magician of Chaos"},
	}

	for _, tt := range tests {
		info := e.Extract(tt.title)
		if info.CardName != tt.name {
			t.Errorf("Extract(%q).CardName = %q; want %q", tt.title, info.CardName, tt.name)
		}
	}
}

func TestExtractNameFallbackStripsBoilerplate(t *testing.T) {
	e := NewExtractor(newTestLogger())

	info := e.Extract("遊戯王 カード Stardust Warrior セット 新品")
	if info.CardName != "Stardust Warrior" {
		t.Errorf("fallback name: got %q, want %q", info.CardName, "Stardust Warrior")
	}
}

func TestExtractNeverFails(t *testing.T) {
	e := NewExtractor(newTestLogger())

	for _, title := range []string{"", "   ", "!!!???", "１２３４５"} {
		info := e.Extract(title)
		if info.Edition != models.EditionUnknown || info.Region != models.RegionUnknown {
			t.Errorf("Extract(%q) should leave enums at unknown", title)
		}
	}
}
