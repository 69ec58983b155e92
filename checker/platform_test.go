package checker

import (
	"net/url"
	"regexp"
	"testing"
	"time"

	"stayalert/models"
)

func testClassifier() *Classifier {
	return &Classifier{
		Platform: models.Platform("testbooking"),
		Patterns: PatternSet{
			Unavailable: []string{"Sold out", "No longer offered"},
			Available:   []string{"Book now"},
			Price:       regexp.MustCompile(`\$\s*[\d,]+`),
		},
		buildURL: func(l models.Listing) string { return l.URL },
	}
}

func TestClassifyUnavailableWinsOverAvailable(t *testing.T) {
	c := testClassifier()

	// Marketing copy on a sold-out page can still say "Book now".
	res := c.Classify("Great place! Book now. Sold out for your dates.", "u")
	if res.Verdict != models.VerdictUnavailable {
		t.Fatalf("verdict: got %v, want unavailable", res.Verdict)
	}
	if res.Reason != "Sold out" {
		t.Errorf("reason: got %q, want %q", res.Reason, "Sold out")
	}
	if res.Price != "" {
		t.Errorf("price should be empty on unavailable, got %q", res.Price)
	}
}

func TestClassifyFirstUnavailableMarkerWins(t *testing.T) {
	c := testClassifier()

	res := c.Classify("No longer offered. Sold out.", "u")
	if res.Reason != "Sold out" {
		// Markers are scanned in declared order.
		t.Errorf("reason: got %q, want %q", res.Reason, "Sold out")
	}
}

func TestClassifyAvailableExtractsFirstPrice(t *testing.T) {
	c := testClassifier()

	res := c.Classify("Book now $1,200 total ($150 night)", "u")
	if res.Verdict != models.VerdictAvailable {
		t.Fatalf("verdict: got %v, want available", res.Verdict)
	}
	if res.Price != "$1,200" {
		t.Errorf("price: got %q, want %q", res.Price, "$1,200")
	}
}

func TestClassifyAvailableWithoutPriceUsesPlaceholder(t *testing.T) {
	c := testClassifier()

	res := c.Classify("Book now — pay at the property", "u")
	if res.Verdict != models.VerdictAvailable {
		t.Fatalf("verdict: got %v, want available", res.Verdict)
	}
	if res.Price != models.PricePlaceholder {
		t.Errorf("price: got %q, want placeholder", res.Price)
	}
}

func TestClassifyAmbiguousPageFailsClosed(t *testing.T) {
	c := testClassifier()

	res := c.Classify("Welcome to our lovely homepage", "u")
	if res.Verdict != models.VerdictUnavailable {
		t.Fatalf("verdict: got %v, want unavailable", res.Verdict)
	}
	if res.Reason != models.ReasonUndeterminable {
		t.Errorf("reason: got %q, want %q", res.Reason, models.ReasonUndeterminable)
	}
}

func TestPatternSetAll(t *testing.T) {
	c := testClassifier()
	all := c.Patterns.All()
	if len(all) != 3 {
		t.Errorf("All(): got %d markers, want 3", len(all))
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAirbnbBuildURL(t *testing.T) {
	l := models.Listing{
		URL:      "https://www.airbnb.com/rooms/12345",
		Platform: models.PlatformAirbnb,
		CheckIn:  date(2026, time.September, 10),
		CheckOut: date(2026, time.September, 13),
		Guests:   2,
	}

	built := buildAirbnbURL(l)
	u, err := url.Parse(built)
	if err != nil {
		t.Fatalf("parse built URL: %v", err)
	}

	q := u.Query()
	if got := q.Get("check_in"); got != "2026-09-10" {
		t.Errorf("check_in: got %q", got)
	}
	if got := q.Get("check_out"); got != "2026-09-13" {
		t.Errorf("check_out: got %q", got)
	}
	if got := q.Get("adults"); got != "2" {
		t.Errorf("adults: got %q", got)
	}
}

func TestAgodaBuildURL(t *testing.T) {
	l := models.Listing{
		URL:      "https://www.agoda.com/some-hotel/hotel/seoul-kr.html",
		Platform: models.PlatformAgoda,
		CheckIn:  date(2026, time.September, 10),
		CheckOut: date(2026, time.September, 13),
		Guests:   3,
	}

	built := buildAgodaURL(l)
	u, err := url.Parse(built)
	if err != nil {
		t.Fatalf("parse built URL: %v", err)
	}

	q := u.Query()
	if got := q.Get("checkIn"); got != "2026-09-10" {
		t.Errorf("checkIn: got %q", got)
	}
	if got := q.Get("los"); got != "3" {
		t.Errorf("los: got %q, want 3 nights", got)
	}
	if got := q.Get("adults"); got != "3" {
		t.Errorf("adults: got %q", got)
	}
	if got := q.Get("cid"); got != agodaPartnerCID {
		t.Errorf("cid: got %q, want fixed partner id", got)
	}
}

func TestNights(t *testing.T) {
	tests := []struct {
		in, out time.Time
		want    int
	}{
		{date(2026, time.September, 10), date(2026, time.September, 13), 3},
		{date(2026, time.September, 10), date(2026, time.September, 11), 1},
		{date(2026, time.September, 10), date(2026, time.September, 10), 1},
		// Reversed dates still produce a usable stay length.
		{date(2026, time.September, 13), date(2026, time.September, 10), 3},
	}

	for _, tt := range tests {
		if got := nights(tt.in, tt.out); got != tt.want {
			t.Errorf("nights(%s, %s) = %d; want %d",
				tt.in.Format(isoDate), tt.out.Format(isoDate), got, tt.want)
		}
	}
}

func TestRegistryLookup(t *testing.T) {
	if _, ok := Lookup(models.PlatformAirbnb); !ok {
		t.Error("airbnb classifier should be registered")
	}
	if _, ok := Lookup(models.PlatformAgoda); !ok {
		t.Error("agoda classifier should be registered")
	}
	if _, ok := Lookup(models.Platform("nope")); ok {
		t.Error("unknown platform should not resolve")
	}
}
