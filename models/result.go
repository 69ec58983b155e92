package models

// Verdict is the classified outcome of a single check attempt.
type Verdict int

const (
	VerdictAvailable Verdict = iota
	VerdictUnavailable
	VerdictError
)

func (v Verdict) String() string {
	switch v {
	case VerdictAvailable:
		return "available"
	case VerdictUnavailable:
		return "unavailable"
	default:
		return "error"
	}
}

const (
	// PricePlaceholder is used when a page is bookable but no price string
	// could be extracted. An Available result never carries an empty price.
	PricePlaceholder = "price needs confirmation"

	// ReasonUndeterminable marks pages where neither pattern set matched.
	// Ambiguous pages are never treated as bookable.
	ReasonUndeterminable = "status undeterminable"
)

// CheckResult is a tagged variant: exactly one of Price (Available),
// Reason (Unavailable) or Detail (Error) is populated. Construct it
// through the helpers below, never by hand.
type CheckResult struct {
	Verdict  Verdict
	Price    string
	Reason   string
	Detail   string
	CheckURL string
}

func AvailableResult(price, checkURL string) CheckResult {
	if price == "" {
		price = PricePlaceholder
	}
	return CheckResult{Verdict: VerdictAvailable, Price: price, CheckURL: checkURL}
}

func UnavailableResult(reason, checkURL string) CheckResult {
	return CheckResult{Verdict: VerdictUnavailable, Reason: reason, CheckURL: checkURL}
}

func ErrorResult(detail, checkURL string) CheckResult {
	return CheckResult{Verdict: VerdictError, Detail: detail, CheckURL: checkURL}
}

// Status maps a verdict to its persisted status value.
func (r CheckResult) Status() AvailabilityStatus {
	switch r.Verdict {
	case VerdictAvailable:
		return StatusAvailable
	case VerdictUnavailable:
		return StatusUnavailable
	default:
		return StatusError
	}
}
