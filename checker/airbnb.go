package checker

import (
	"net/url"
	"regexp"
	"strconv"

	"stayalert/models"
)

const isoDate = "2006-01-02"

func init() {
	Register(newAirbnbClassifier())
}

func newAirbnbClassifier() *Classifier {
	return &Classifier{
		Platform: models.PlatformAirbnb,
		Patterns: PatternSet{
			Unavailable: []string{
				"Those dates are not available",
				"This listing is no longer available",
				"선택하신 날짜는 이용이 불가능합니다",
				"표시할 수 없는 숙소입니다",
			},
			Available: []string{
				"Reserve",
				"예약하기",
			},
			Price: regexp.MustCompile(`[₩$€£]\s?[\d,]+`),
		},
		buildURL: buildAirbnbURL,
	}
}

func buildAirbnbURL(l models.Listing) string {
	u, err := url.Parse(l.URL)
	if err != nil {
		return l.URL
	}

	q := u.Query()
	q.Set("check_in", l.CheckIn.Format(isoDate))
	q.Set("check_out", l.CheckOut.Format(isoDate))
	q.Set("adults", strconv.Itoa(l.Guests))
	u.RawQuery = q.Encode()

	return u.String()
}
