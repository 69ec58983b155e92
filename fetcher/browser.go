package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"stayalert/utils"
)

const sessionUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

// Browser is the chromedp-backed Fetcher. It owns a single exec allocator;
// every session gets its own tab context on top of it.
type Browser struct {
	logger   *utils.Logger
	allocCtx context.Context
	cancels  []context.CancelFunc
}

// NewBrowser locates a Chrome binary and prepares the allocator. The
// browser process itself is spawned lazily by the first session.
func NewBrowser(logger *utils.Logger, chromeBin string) (*Browser, error) {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	logger.Info("[fetcher] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-accelerated-2d-canvas", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(sessionUserAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	return &Browser{
		logger:   logger,
		allocCtx: silentCtx,
		cancels:  []context.CancelFunc{cancelSilent, cancelAlloc},
	}, nil
}

// Close tears down the allocator and the browser process.
func (b *Browser) Close() {
	for _, cancel := range b.cancels {
		cancel()
	}
}

// OpenSession creates a fresh tab context. It fails with a SessionError
// once the allocator has been torn down.
func (b *Browser) OpenSession(ctx context.Context) (Session, error) {
	if err := b.allocCtx.Err(); err != nil {
		return nil, &SessionError{Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &SessionError{Err: err}
	}

	tabCtx, cancel := chromedp.NewContext(b.allocCtx)
	return &browserSession{ctx: tabCtx, cancel: cancel}, nil
}

type browserSession struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// Load navigates to the page, scrolls to trigger lazy content, waits a
// bounded time for any marker to render, and returns the page's visible
// text. A marker-wait timeout is not an error; the text is extracted
// as-is and a later classify pass decides what it means.
func (s *browserSession) Load(ctx context.Context, pageURL string, opts LoadOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	navCtx, cancelNav := context.WithTimeout(s.ctx, opts.NavTimeout)
	defer cancelNav()

	err := chromedp.Run(navCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{
			"Accept-Language": "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7",
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(
				`Object.defineProperty(navigator, "webdriver", { get: () => undefined })`,
			).Do(ctx)
			return err
		}),
		chromedp.Navigate(pageURL),
		chromedp.Evaluate(fmt.Sprintf("window.scrollBy(0, %d)", opts.ScrollDistance), nil),
	)
	if err != nil {
		return "", classifyRunError(err)
	}

	if len(opts.WaitFor) > 0 {
		if err := s.waitForMarkers(opts); err != nil {
			return "", err
		}
	}

	extractTimeout := opts.ExtractTimeout
	if extractTimeout <= 0 {
		extractTimeout = 15 * time.Second
	}
	extractCtx, cancelExtract := context.WithTimeout(s.ctx, extractTimeout)
	defer cancelExtract()

	var text string
	if err := chromedp.Run(extractCtx,
		chromedp.Evaluate(`document.body.innerText || ""`, &text),
	); err != nil {
		return "", classifyRunError(err)
	}
	return text, nil
}

func (s *browserSession) waitForMarkers(opts LoadOptions) error {
	markers, err := json.Marshal(opts.WaitFor)
	if err != nil {
		return err
	}

	expr := fmt.Sprintf(
		`(() => { const t = document.body.innerText || ""; return %s.some(p => t.includes(p)); })()`,
		markers)

	var found bool
	err = chromedp.Run(s.ctx, chromedp.Poll(expr, &found,
		chromedp.WithPollingTimeout(opts.WaitTimeout),
		chromedp.WithPollingInterval(500*time.Millisecond),
	))
	if err != nil {
		if errors.Is(err, chromedp.ErrPollingTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return classifyRunError(err)
	}
	return nil
}

// Close releases the tab. Safe to call more than once.
func (s *browserSession) Close() {
	s.once.Do(s.cancel)
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
