package starpets

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"starpets-hunter/config"
	"starpets-hunter/utils"
)

// interactionTimeout bounds individual click/type/extract steps.
const interactionTimeout = 15 * time.Second

// ChromeDriver is the chromedp-backed PageDriver. It owns one headless
// browser and one tab for its whole lifetime.
type ChromeDriver struct {
	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
	logger      *utils.Logger
}

// NewChromeDriver launches a headless browser tab ready for navigation.
func NewChromeDriver(cfg *config.Config, logger *utils.Logger) (*ChromeDriver, error) {
	chromeBin := findChromeBinary(cfg.ChromeBin)
	logger.Info("[chrome] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(1280, 900),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Force the browser to start now so that a broken environment fails
	// the run at session setup instead of on the first target.
	if err := chromedp.Run(ctx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("chrome: launch browser: %w", err)
	}

	return &ChromeDriver{
		ctx:         ctx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
		logger:      logger,
	}, nil
}

func (d *ChromeDriver) Navigate(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(d.ctx, timeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("chrome: navigate %s: %w", url, err)
	}
	return nil
}

func (d *ChromeDriver) WaitForSettle(dur time.Duration) error {
	if err := chromedp.Run(d.ctx, chromedp.Sleep(dur)); err != nil {
		return fmt.Errorf("chrome: settle wait: %w", err)
	}
	return nil
}

// Click accepts a CSS selector or plain text; queries are resolved with
// DOM search so visible-text targets like overlay labels work too.
func (d *ChromeDriver) Click(query string) error {
	ctx, cancel := context.WithTimeout(d.ctx, interactionTimeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.Click(query, chromedp.BySearch)); err != nil {
		return fmt.Errorf("chrome: click %q: %w", query, err)
	}
	return nil
}

func (d *ChromeDriver) TypeInto(selector, text string, keyDelay time.Duration) error {
	ctx, cancel := context.WithTimeout(d.ctx, interactionTimeout)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Focus(selector, chromedp.ByQuery),
		chromedp.Clear(selector, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("chrome: prepare %q for typing: %w", selector, err)
	}

	// Human-like pacing: one key at a time with a delay between keys.
	for _, r := range text {
		if err := chromedp.Run(ctx, chromedp.SendKeys(selector, string(r), chromedp.ByQuery)); err != nil {
			return fmt.Errorf("chrome: type into %q: %w", selector, err)
		}
		time.Sleep(keyDelay)
	}
	return nil
}

func (d *ChromeDriver) PressKey(key string) error {
	ctx, cancel := context.WithTimeout(d.ctx, interactionTimeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.KeyEvent(key)); err != nil {
		return fmt.Errorf("chrome: press key: %w", err)
	}
	return nil
}

func (d *ChromeDriver) ExtractText(script string) ([]string, error) {
	ctx, cancel := context.WithTimeout(d.ctx, interactionTimeout)
	defer cancel()

	var blocks []string
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &blocks)); err != nil {
		return nil, fmt.Errorf("chrome: extract text: %w", err)
	}
	return blocks, nil
}

func (d *ChromeDriver) Screenshot(path string) error {
	ctx, cancel := context.WithTimeout(d.ctx, interactionTimeout)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return fmt.Errorf("chrome: capture screenshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("chrome: create screenshot dir: %w", err)
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("chrome: write screenshot %q: %w", path, err)
	}
	return nil
}

func (d *ChromeDriver) Close() error {
	d.cancelCtx()
	d.cancelAlloc()
	d.logger.Debug("[chrome] Browser session closed")
	return nil
}

// findChromeBinary locates a Chrome/Chromium binary, preferring the
// configured path.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
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
