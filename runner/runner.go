// Package runner drives one full check cycle over every tracked listing.
package runner

import (
	"context"
	"sync/atomic"
	"time"

	"stayalert/config"
	"stayalert/models"
	"stayalert/notify"
	"stayalert/storage"
	"stayalert/utils"
)

// Checker is the per-listing availability check the runner fans out.
type Checker interface {
	Check(ctx context.Context, l models.Listing) models.CheckResult
}

// Runner orchestrates a batch of availability checks: load due listings,
// run them through the bounded pool, persist results, and alert owners on
// a transition into AVAILABLE.
type Runner struct {
	cfg      *config.Config
	logger   *utils.Logger
	store    storage.Store
	notifier notify.Notifier
	checker  Checker
	pool     *utils.WorkerPool

	// running guards against overlapping cycles. Overlaps are dropped,
	// not queued.
	running atomic.Bool
}

func New(cfg *config.Config, logger *utils.Logger, store storage.Store, notifier notify.Notifier, checker Checker) *Runner {
	return &Runner{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		notifier: notifier,
		checker:  checker,
		pool:     utils.NewWorkerPool(cfg.Concurrency, time.Duration(cfg.RateLimitMs)*time.Millisecond),
	}
}

// RunCycle checks every active listing once. A cycle invoked while the
// previous one is still in flight is a logged no-op. Per-listing failures
// never abort the batch.
func (r *Runner) RunCycle(ctx context.Context) {
	if !r.running.CompareAndSwap(false, true) {
		r.logger.Warn("[runner] previous cycle still in flight — skipping")
		return
	}
	defer r.running.Store(false)

	started := time.Now()
	listings, err := r.store.ListDueListings(ctx, started)
	if err != nil {
		r.logger.Error("[runner] loading due listings: %v", err)
		return
	}
	if len(listings) == 0 {
		r.logger.Info("[runner] no listings due for a check")
		return
	}

	r.logger.Info("[runner] cycle start — %d listings, concurrency %d", len(listings), r.cfg.Concurrency)

	results := make([]models.CheckResult, len(listings))
	for i := range listings {
		i, l := i, listings[i]
		r.pool.Submit(func() {
			results[i] = r.checker.Check(ctx, l)
		})
	}
	r.pool.Wait()

	notified := 0
	for i := range listings {
		if r.process(ctx, listings[i], results[i]) {
			notified++
		}
	}

	r.logger.Info("[runner] cycle done in %v — %d checked, %d alerts delivered",
		time.Since(started).Round(time.Millisecond), len(listings), notified)
}

// process persists one result and reports whether an alert was delivered.
func (r *Runner) process(ctx context.Context, l models.Listing, res models.CheckResult) bool {
	status := res.Status()

	entry := &models.CheckLog{
		ListingID: l.ID,
		Status:    status,
		Price:     res.Price,
		Detail:    resultDetail(res),
		CheckedAt: time.Now(),
	}
	if err := r.store.AppendCheckLog(ctx, entry); err != nil {
		r.logger.Error("[runner] %q: append check log: %v", l.Name, err)
	}

	delivered := false
	if ev := r.transition(l, res); ev != nil {
		delivered = r.alert(ctx, l, *ev, entry.ID)
	}

	cache := models.ListingCache{
		LastCheckAt: time.Now(),
		LastStatus:  status,
		LastPrice:   res.Price,
	}
	if err := r.store.UpdateListingCache(ctx, l.ID, cache); err != nil {
		r.logger.Error("[runner] %q: update listing cache: %v", l.Name, err)
	}

	return delivered
}

// transition returns an event when and only when the verdict is Available
// and the listing's last known status was not. Owners without a
// notification credential never get an event.
func (r *Runner) transition(l models.Listing, res models.CheckResult) *models.TransitionEvent {
	if res.Verdict != models.VerdictAvailable {
		return nil
	}
	if l.LastStatus == models.StatusAvailable {
		return nil
	}
	if l.NotifyToken == "" {
		r.logger.Debug("[runner] %q became available but owner has no notify credential", l.Name)
		return nil
	}

	return &models.TransitionEvent{
		ListingID:   l.ID,
		ListingName: l.Name,
		CheckIn:     l.CheckIn,
		CheckOut:    l.CheckOut,
		Price:       res.Price,
		CheckURL:    res.CheckURL,
		OwnerID:     l.OwnerID,
	}
}

func (r *Runner) alert(ctx context.Context, l models.Listing, ev models.TransitionEvent, logID string) bool {
	r.logger.Info("[runner] %q flipped to available (%s) — alerting owner %d", l.Name, ev.Price, l.OwnerID)

	delivered, err := r.notifier.SendAvailabilityAlert(ctx, l.NotifyToken, ev)
	if err != nil {
		r.logger.Error("[runner] %q: alert delivery: %v", l.Name, err)
		return false
	}
	if !delivered {
		return false
	}

	if logID != "" {
		if err := r.store.MarkLogNotified(ctx, logID); err != nil {
			r.logger.Error("[runner] %q: mark log notified: %v", l.Name, err)
		}
	}
	return true
}

func resultDetail(res models.CheckResult) string {
	switch res.Verdict {
	case models.VerdictUnavailable:
		return res.Reason
	case models.VerdictError:
		return res.Detail
	default:
		return ""
	}
}
