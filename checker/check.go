package checker

import (
	"context"
	"fmt"
	"time"

	"stayalert/config"
	"stayalert/fetcher"
	"stayalert/models"
	"stayalert/utils"
)

// Checker runs one availability check per listing: fetch, classify, retry
// transient fetch failures. Every failure mode ends in a normal
// CheckResult — nothing escapes to the caller as an error.
type Checker struct {
	Fetcher fetcher.Fetcher
	Logger  *utils.Logger

	// MaxRetries counts additional attempts after the first. Each attempt
	// gets a brand-new session; a poisoned session is never reused.
	MaxRetries     int
	RetryDelay     time.Duration
	NavTimeout     time.Duration
	WaitTimeout    time.Duration
	ExtractTimeout time.Duration
	ScrollDistance int
}

// New builds a Checker from worker configuration.
func New(cfg *config.Config, logger *utils.Logger, f fetcher.Fetcher) *Checker {
	return &Checker{
		Fetcher:        f,
		Logger:         logger,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     time.Duration(cfg.RetryDelayMs) * time.Millisecond,
		NavTimeout:     time.Duration(cfg.NavTimeoutSec) * time.Second,
		WaitTimeout:    time.Duration(cfg.WaitTimeoutSec) * time.Second,
		ExtractTimeout: time.Duration(cfg.ExtractTimeoutSec) * time.Second,
		ScrollDistance: cfg.ScrollDistance,
	}
}

// Check fetches the listing's page and classifies it. Transient fetch
// failures are re-attempted with a fixed delay; exhausted retries and
// terminal failures come back as an Error result.
func (c *Checker) Check(ctx context.Context, l models.Listing) models.CheckResult {
	cls, ok := Lookup(l.Platform)
	if !ok {
		return models.ErrorResult(fmt.Sprintf("no classifier registered for platform %q", l.Platform), l.URL)
	}

	checkURL := cls.BuildURL(l)

	retry := &utils.RetryConfig{
		MaxRetries: c.MaxRetries,
		Delay:      c.RetryDelay,
		Retryable:  fetcher.IsTransient,
		Logger:     c.Logger,
	}

	var result models.CheckResult
	err := retry.Do(fmt.Sprintf("check %q", l.Name), func() error {
		return c.attempt(ctx, cls, checkURL, &result)
	})
	if err != nil {
		return models.ErrorResult(err.Error(), checkURL)
	}
	return result
}

// attempt runs one fetch + classify on a fresh session. The session is
// released on every exit path.
func (c *Checker) attempt(ctx context.Context, cls *Classifier, checkURL string, result *models.CheckResult) error {
	sess, err := c.Fetcher.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	text, err := sess.Load(ctx, checkURL, fetcher.LoadOptions{
		WaitFor:        cls.Patterns.All(),
		NavTimeout:     c.NavTimeout,
		WaitTimeout:    c.WaitTimeout,
		ExtractTimeout: c.ExtractTimeout,
		ScrollDistance: c.ScrollDistance,
	})
	if err != nil {
		return err
	}

	*result = cls.Classify(text, checkURL)
	return nil
}
