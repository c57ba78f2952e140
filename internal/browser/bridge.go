// Package browser drives a real Chrome instance to capture LinkedIn page
// snapshots for offline extraction. A persistent profile directory keeps the
// logged-in session between runs.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	loginURL        = "https://www.linkedin.com/login"
	snapshotTimeout = 60 * time.Second
	userAgent       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// Bridge manages Chrome instances for page capture.
type Bridge struct {
	profileDir string
	headless   bool
	logger     *slog.Logger
}

// BridgeConfig holds configuration for the browser bridge.
type BridgeConfig struct {
	ProfileDir string // Chrome user data directory (persists cookies/sessions)
	Headless   bool   // Run headless (true) or with visible UI (false)
	Logger     *slog.Logger
}

func NewBridge(cfg BridgeConfig) *Bridge {
	if cfg.ProfileDir == "" {
		home, _ := os.UserHomeDir()
		cfg.ProfileDir = filepath.Join(home, ".linkdraft", "chrome-profiles", "default")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Bridge{
		profileDir: cfg.ProfileDir,
		headless:   cfg.Headless,
		logger:     cfg.Logger,
	}
}

// NewContext creates a new chromedp context with the bridge's Chrome profile.
// The caller MUST call cancel() when done.
func (b *Bridge) NewContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	if err := os.MkdirAll(b.profileDir, 0o755); err != nil {
		b.logger.Error("failed to create profile dir", "dir", b.profileDir, "err", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(b.profileDir),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("exclude-switches", "enable-automation"),
		chromedp.UserAgent(userAgent),
	)

	if b.headless {
		opts = append(opts, chromedp.Headless)
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parentCtx, opts...)
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)

	cancelAll := func() {
		taskCancel()
		allocCancel()
	}

	return taskCtx, cancelAll
}

// Login opens a visible browser for the user to sign in manually.
// Cookies land in the profile directory and survive restarts.
func (b *Bridge) Login(ctx context.Context) error {
	b.logger.Info("opening browser for login", "url", loginURL)

	// Force visible browser for login
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(b.profileDir),
		chromedp.Flag("headless", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("exclude-switches", "enable-automation"),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	if err := chromedp.Run(taskCtx, chromedp.Navigate(loginURL)); err != nil {
		return fmt.Errorf("navigate to login page: %w", err)
	}

	b.logger.Info("browser opened. Please log in manually. Press Ctrl+C when done.")

	<-ctx.Done()

	b.logger.Info("login session saved", "profile", b.profileDir)
	return nil
}

// Snapshot is one captured page: the full document markup plus the innerHTML
// of any shadow-root containers that the main tree does not reach.
type Snapshot struct {
	URL       string
	PageHTML  string
	Fragments []string
}

// collectFragmentsJS pulls the innerHTML of shadow-hosted containers that
// querySelector cannot see from the document root.
const collectFragmentsJS = `
(function() {
	var out = [];
	var hosts = document.querySelectorAll('[data-testid="interop-shadowdom"]');
	for (var i = 0; i < hosts.length; i++) {
		var root = hosts[i].shadowRoot;
		if (root) {
			out.push(root.innerHTML);
		} else {
			out.push(hosts[i].innerHTML);
		}
	}
	return out;
})()
`

// Snapshot navigates to url, waits for the page to settle and captures the
// markup needed for extraction.
func (b *Bridge) Snapshot(ctx context.Context, url string) (*Snapshot, error) {
	taskCtx, cancel := b.NewContext(ctx)
	defer cancel()

	taskCtx, taskCancel := context.WithTimeout(taskCtx, snapshotTimeout)
	defer taskCancel()

	var pageHTML string
	var fragments []string

	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(`document.documentElement.outerHTML`, &pageHTML),
		chromedp.Evaluate(collectFragmentsJS, &fragments),
	)
	if err != nil {
		return nil, fmt.Errorf("capture page %s: %w", url, err)
	}

	b.logger.Debug("page captured", "url", url, "bytes", len(pageHTML), "fragments", len(fragments))
	return &Snapshot{URL: url, PageHTML: pageHTML, Fragments: fragments}, nil
}

// Observe reports whether a messaging surface is currently visible on the
// page, without capturing markup. Safe to call repeatedly.
func (b *Bridge) Observe(ctx context.Context, url string) (bool, error) {
	taskCtx, cancel := b.NewContext(ctx)
	defer cancel()

	taskCtx, taskCancel := context.WithTimeout(taskCtx, snapshotTimeout)
	defer taskCancel()

	var present bool
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(
			`document.querySelector('.msg-overlay-conversation-bubble, .msg-conversation-container, [contenteditable="true"][role="textbox"]') !== null`,
			&present,
		),
	)
	if err != nil {
		return false, fmt.Errorf("observe page %s: %w", url, err)
	}
	return present, nil
}
