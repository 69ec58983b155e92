package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"stayalert/checker"
	"stayalert/config"
	"stayalert/fetcher"
	"stayalert/notify"
	"stayalert/runner"
	"stayalert/storage"
	"stayalert/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	if missing := cfg.Validate(); len(missing) > 0 {
		logger.Error("Missing required environment variables: %s", strings.Join(missing, ", "))
		logger.Error("Check your .env file")
		os.Exit(1)
	}

	logger.Info("=== stayalert monitoring worker starting ===")
	logger.Info("Config — schedule: %s | concurrency: %d | retries: %d (+%dms delay)",
		cfg.CronSchedule, cfg.Concurrency, cfg.MaxRetries, cfg.RetryDelayMs)

	store, err := storage.NewPostgres(cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	browser, err := fetcher.NewBrowser(logger, cfg.ChromeBin)
	if err != nil {
		logger.Error("Failed to prepare browser: %v", err)
		os.Exit(1)
	}
	defer browser.Close()

	chk := checker.New(cfg, logger, browser)
	notifier := notify.NewKakao(cfg.KakaoAPIBase, logger)
	run := runner.New(cfg, logger, store, notifier, chk)

	sched := cron.New()
	if _, err := sched.AddFunc(cfg.CronSchedule, func() {
		run.RunCycle(context.Background())
	}); err != nil {
		logger.Error("Invalid cron schedule %q: %v", cfg.CronSchedule, err)
		os.Exit(1)
	}
	sched.Start()

	// One warm-up cycle shortly after boot so a restart never waits a
	// full schedule interval.
	stopWarmup := runAfter(time.Duration(cfg.StartupDelaySec)*time.Second, func() {
		run.RunCycle(context.Background())
	})

	logger.Info("Worker ready — next run per schedule %q", cfg.CronSchedule)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig

	logger.Info("Received %s — shutting down", received)
	stopWarmup()
	<-sched.Stop().Done()
}

// runAfter fires job once after delay. The returned stop function cancels
// an unfired timer, and blocks until the job returns if it already fired.
func runAfter(delay time.Duration, job func()) (stop func()) {
	done := make(chan struct{})
	t := time.AfterFunc(delay, func() {
		defer close(done)
		job()
	})
	return func() {
		if !t.Stop() {
			<-done
		}
	}
}
