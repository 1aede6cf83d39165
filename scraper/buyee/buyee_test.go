package buyee

import (
	"testing"

	"card-arbitrage/config"
	"card-arbitrage/utils"
)

func TestParseYen(t *testing.T) {
	tests := []struct {
		raw string
		yen int
		ok  bool
	}{
		{"1,200 円", 1200, true},
		{"¥15,800", 15800, true},
		{"300円(税込)", 300, true},
		{"無料", 0, false},
		{"", 0, false},
		{"0 円", 0, false},
	}

	for _, tt := range tests {
		yen, ok := parseYen(tt.raw)
		if yen != tt.yen || ok != tt.ok {
			t.Errorf("parseYen(%q) = (%d, %v); want (%d, %v)", tt.raw, yen, ok, tt.yen, tt.ok)
		}
	}
}

func TestDeriveYahooURL(t *testing.T) {
	tests := []struct {
		listing string
		want    string
	}{
		{
			"https://buyee.jp/item/yahoo/auction/x1234567890",
			"https://page.auctions.yahoo.co.jp/jp/auction/x1234567890",
		},
		{
			"https://buyee.jp/item/yahoo/auction/b987654321?conversionType=card",
			"https://page.auctions.yahoo.co.jp/jp/auction/b987654321",
		},
		{"https://buyee.jp/item/search/query/card", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := deriveYahooURL(tt.listing); got != tt.want {
			t.Errorf("deriveYahooURL(%q) = %q; want %q", tt.listing, got, tt.want)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	if got := normalizeText("  青眼の白龍 \n シークレット\t1st  "); got != "青眼の白龍 シークレット 1st" {
		t.Errorf("normalizeText = %q", got)
	}
}

func TestToListing(t *testing.T) {
	cfg := &config.Config{JPYUSDRate: 0.0067}
	s := New(cfg, utils.NewLogger())

	item := rawItem{
		Title:     "青眼の白龍  レリーフ",
		PriceText: "7,500 円",
		Condition: " 中古 ",
		ImageURL:  "https://static.buyee.jp/img/abc.jpg",
		URL:       "https://buyee.jp/item/yahoo/auction/x1234567890",
	}

	listing, ok := s.toListing(item)
	if !ok {
		t.Fatal("toListing rejected a valid item")
	}
	if listing.Title != "青眼の白龍 レリーフ" {
		t.Errorf("Title = %q", listing.Title)
	}
	if listing.PriceYen != 7500 {
		t.Errorf("PriceYen = %d; want 7500", listing.PriceYen)
	}
	if want := 7500 * 0.0067; listing.PriceUSD != want {
		t.Errorf("PriceUSD = %v; want %v", listing.PriceUSD, want)
	}
	if listing.ConditionText != "中古" {
		t.Errorf("ConditionText = %q", listing.ConditionText)
	}
	if listing.YahooURL != "https://page.auctions.yahoo.co.jp/jp/auction/x1234567890" {
		t.Errorf("YahooURL = %q", listing.YahooURL)
	}
	if listing.Source != "buyee" {
		t.Errorf("Source = %q", listing.Source)
	}

	// Same URL again is a duplicate.
	if _, ok := s.toListing(item); ok {
		t.Error("duplicate URL should be rejected")
	}
}

func TestToListingDropsInvalidItems(t *testing.T) {
	s := New(&config.Config{JPYUSDRate: 0.0067}, utils.NewLogger())

	if _, ok := s.toListing(rawItem{Title: "no url", PriceText: "100 円"}); ok {
		t.Error("item without URL should be dropped")
	}
	if _, ok := s.toListing(rawItem{Title: "bad price", PriceText: "ask", URL: "https://buyee.jp/item/a"}); ok {
		t.Error("item with unparseable price should be dropped")
	}
}

func TestToListingNoImagePlaceholder(t *testing.T) {
	s := New(&config.Config{JPYUSDRate: 0.0067}, utils.NewLogger())

	listing, ok := s.toListing(rawItem{
		Title:     "x",
		PriceText: "500 円",
		ImageURL:  "https://static.buyee.jp/noimage.png",
		URL:       "https://buyee.jp/item/yahoo/auction/q111",
	})
	if !ok {
		t.Fatal("toListing rejected a valid item")
	}
	if listing.ImageURL != "" {
		t.Errorf("ImageURL = %q; want empty for noimage placeholder", listing.ImageURL)
	}
	if listing.ConditionText != "Unknown" {
		t.Errorf("ConditionText = %q; want Unknown default", listing.ConditionText)
	}
}
