package checker

import (
	"regexp"
	"strings"
	"sync"

	"stayalert/models"
)

// PatternSet holds a platform's text markers. Unavailable markers are
// authoritative: sold-out pages routinely contain available-looking
// marketing copy, but no unavailable marker appears on a bookable page,
// so they are always scanned first.
type PatternSet struct {
	Unavailable []string
	Available   []string
	Price       *regexp.Regexp
}

// All returns every marker, for the fetcher's render-wait condition.
func (p PatternSet) All() []string {
	all := make([]string, 0, len(p.Unavailable)+len(p.Available))
	all = append(all, p.Unavailable...)
	all = append(all, p.Available...)
	return all
}

// Classifier knows how to build a check URL and read a rendered page for
// one platform.
type Classifier struct {
	Platform models.Platform
	Patterns PatternSet
	buildURL func(models.Listing) string
}

// BuildURL deterministically constructs the listing's check URL.
func (c *Classifier) BuildURL(l models.Listing) string {
	return c.buildURL(l)
}

// Classify reads a page's visible text into a verdict. Unavailable
// markers win over available ones; a page matching neither set is
// fail-closed to Unavailable.
func (c *Classifier) Classify(pageText, checkURL string) models.CheckResult {
	for _, marker := range c.Patterns.Unavailable {
		if strings.Contains(pageText, marker) {
			return models.UnavailableResult(marker, checkURL)
		}
	}

	for _, marker := range c.Patterns.Available {
		if strings.Contains(pageText, marker) {
			return models.AvailableResult(c.Patterns.Price.FindString(pageText), checkURL)
		}
	}

	return models.UnavailableResult(models.ReasonUndeterminable, checkURL)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[models.Platform]*Classifier)
)

// Register adds a platform classifier. Adding a platform is one Register
// call; nothing else changes.
func Register(c *Classifier) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[c.Platform] = c
}

// Lookup returns the classifier for a platform tag.
func Lookup(p models.Platform) (*Classifier, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[p]
	return c, ok
}
