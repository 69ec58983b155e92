package checker

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"stayalert/models"
)

// agodaPartnerCID is the fixed affiliate parameter Agoda expects on
// deep-linked availability pages.
const agodaPartnerCID = "1844104"

func init() {
	Register(newAgodaClassifier())
}

func newAgodaClassifier() *Classifier {
	return &Classifier{
		Platform: models.PlatformAgoda,
		Patterns: PatternSet{
			Unavailable: []string{
				"Sold out",
				"No rooms available",
				"not available on your selected dates",
				"이 날짜에는 이용할 수 없습니다",
				"매진되었습니다",
			},
			Available: []string{
				"Book now",
				"See final price",
				"지금 예약하기",
			},
			Price: regexp.MustCompile(`[₩$€£]\s?[\d,]+`),
		},
		buildURL: buildAgodaURL,
	}
}

// Agoda bills by length of stay, so the deep link carries a nights count
// rather than a check-out date.
func buildAgodaURL(l models.Listing) string {
	u, err := url.Parse(l.URL)
	if err != nil {
		return l.URL
	}

	q := u.Query()
	q.Set("checkIn", l.CheckIn.Format(isoDate))
	q.Set("los", strconv.Itoa(nights(l.CheckIn, l.CheckOut)))
	q.Set("adults", strconv.Itoa(l.Guests))
	q.Set("rooms", "1")
	q.Set("cid", agodaPartnerCID)
	u.RawQuery = q.Encode()

	return u.String()
}

// nights is ceil(|checkOut − checkIn|) in calendar days, never below one.
func nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d < 0 {
		d = -d
	}
	n := int(math.Ceil(d.Hours() / 24))
	if n < 1 {
		n = 1
	}
	return n
}
