package pricing

import "testing"

func TestParseEbayResponse(t *testing.T) {
	body := []byte(`{
		"itemSummaries": [
			{"itemId": "v1|100001|0", "title": "Blue-Eyes White Dragon LOB-001",
			 "condition": "Used", "price": {"value": "125.50", "currency": "USD"}},
			{"itemId": "v1|100002|0", "title": "Blue-Eyes White Dragon PSA 10",
			 "condition": "Graded", "price": {"value": "410.00", "currency": "USD"}},
			{"itemId": "v1|100003|0", "title": "EUR priced listing",
			 "condition": "Used", "price": {"value": "90.00", "currency": "EUR"}},
			{"itemId": "v1|100004|0", "title": "broken price",
			 "condition": "Used", "price": {"value": "n/a", "currency": "USD"}}
		]
	}`)

	sales, err := parseEbayResponse(body)
	if err != nil {
		t.Fatalf("parseEbayResponse: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("len(sales) = %d; want 2 (non-USD and unparseable skipped)", len(sales))
	}
	if sales[0].ItemID != "v1|100001|0" || sales[0].Price != 125.50 {
		t.Errorf("sales[0] = %+v", sales[0])
	}
	if sales[1].Title != "Blue-Eyes White Dragon PSA 10" || sales[1].Price != 410 {
		t.Errorf("sales[1] = %+v", sales[1])
	}
}

func TestParseEbayResponseEmpty(t *testing.T) {
	sales, err := parseEbayResponse([]byte(`{}`))
	if err != nil {
		t.Fatalf("parseEbayResponse: %v", err)
	}
	if len(sales) != 0 {
		t.Errorf("len(sales) = %d; want 0", len(sales))
	}
}

func TestParseEbayResponseMalformed(t *testing.T) {
	if _, err := parseEbayResponse([]byte(`<html>not json</html>`)); err == nil {
		t.Error("malformed payload should return an error")
	}
}
