package starpets

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"starpets-hunter/config"
	"starpets-hunter/models"
	"starpets-hunter/services"
	"starpets-hunter/utils"
)

const (
	// searchOverlay is the clickable label that opens the search input
	// on the hydrated page.
	searchOverlay = `Quick search`
	// searchBox is the actual input behind the overlay.
	searchBox = `input[placeholder="Quick search"]`
)

// unsafeFilenameChars matches every rune that may not appear in a
// screenshot filename.
var unsafeFilenameChars = regexp.MustCompile(`[^\w\-_. ]`)

// Hunter drives one full hunt run: one browser session, one sequential
// pass over all configured targets.
type Hunter struct {
	cfg    *config.Config
	logger *utils.Logger

	// newDriver is swapped out in tests to avoid launching a browser.
	newDriver func() (PageDriver, error)
}

// New creates a ready-to-use Hunter backed by a headless Chrome session.
func New(cfg *config.Config, logger *utils.Logger) *Hunter {
	return &Hunter{
		cfg:    cfg,
		logger: logger,
		newDriver: func() (PageDriver, error) {
			return NewChromeDriver(cfg, logger)
		},
	}
}

// Hunt searches the marketplace for every target and returns the flat
// list of successfully classified listings. All listings of one run share
// a single UTC timestamp, captured before the first search, so one hunt
// cycle can be correlated in the history log.
//
// A failure on one target is isolated: it is logged, contributes zero
// listings, and never prevents the remaining targets from being searched.
// The browser session is torn down on every exit path.
func (h *Hunter) Hunt(targets []models.Target) ([]*models.Listing, error) {
	if len(targets) == 0 {
		h.logger.Info("[hunt] No targets configured. Nothing to hunt.")
		return nil, nil
	}

	h.logger.Info("[hunt] Starting hunt for %d targets...", len(targets))

	drv, err := h.newDriver()
	if err != nil {
		return nil, fmt.Errorf("starpets: open session: %w", err)
	}
	defer drv.Close()

	h.prepareSession(drv)

	runStamp := time.Now().UTC()
	var all []*models.Listing

	for _, t := range targets {
		h.logger.Info("[hunt] Hunting for: %s (target <= %g€)", t.Name, t.MaxPrice)

		found := 0
		for _, raw := range h.searchTarget(drv, t.Name) {
			name, price, ok := services.ClassifyCard(services.SplitCardLines(raw))
			if !ok {
				continue
			}
			all = append(all, &models.Listing{Timestamp: runStamp, Name: name, Price: price})
			found++
		}

		if found == 0 {
			h.logger.Info("[hunt] No results found for %q", t.Name)
		} else {
			h.logger.Info("[hunt] Found %d listings for %q", found, t.Name)
		}
	}

	h.logger.Info("[hunt] Hunt complete — %d listings total", len(all))
	return all, nil
}

// prepareSession navigates to the marketplace, waits for hydration, and
// verifies the displayed currency. Every step here is best-effort: a slow
// or partially loaded page is logged and the run proceeds.
func (h *Hunter) prepareSession(drv PageDriver) {
	h.logger.Info("[hunt] Navigating to %s ...", h.cfg.MarketURL)

	navTimeout := time.Duration(h.cfg.NavTimeoutS) * time.Second
	if err := drv.Navigate(h.cfg.MarketURL, navTimeout); err != nil {
		h.logger.Warn("[hunt] Home page load failed — attempting to proceed anyway: %v", err)
	}
	if err := drv.WaitForSettle(time.Duration(h.cfg.HydrateMs) * time.Millisecond); err != nil {
		h.logger.Warn("[hunt] Hydration wait failed: %v", err)
	}

	h.ensureCurrencyEUR(drv)
}

// ensureCurrencyEUR switches the page currency to EUR when the header
// toggle shows dollars. Failures are soft — the run continues with
// whatever currency is active.
func (h *Hunter) ensureCurrencyEUR(drv PageDriver) {
	h.logger.Info("[hunt] Checking currency setting...")

	current, err := drv.ExtractText(currencyProbeScript)
	if err != nil || len(current) == 0 {
		h.logger.Warn("[hunt] Could not verify currency: %v", err)
		return
	}

	label := current[0]
	if !strings.Contains(label, "$") && !strings.Contains(label, "USD") {
		h.logger.Info("[hunt] Currency already seems to be EUR.")
		return
	}

	h.logger.Info("[hunt] Switching currency to EUR...")
	if _, err := drv.ExtractText(currencyToggleScript); err != nil {
		h.logger.Warn("[hunt] Could not open currency menu: %v", err)
		return
	}
	if err := drv.Click(`EUR`); err != nil {
		h.logger.Warn("[hunt] Could not select EUR: %v", err)
		return
	}
	if err := drv.WaitForSettle(2 * time.Second); err != nil {
		h.logger.Warn("[hunt] Currency settle wait failed: %v", err)
	}
}

// searchTarget runs one search cycle for a target name and returns the
// raw card text blocks. Any failure is caught here and yields an empty
// result for this target only.
func (h *Hunter) searchTarget(drv PageDriver, name string) []string {
	cards, err := h.driveSearch(drv, name)
	if err != nil {
		h.logger.Error("[hunt] Failed hunting %q: %v", name, err)
		return nil
	}
	if len(cards) > h.cfg.ResultLimit {
		cards = cards[:h.cfg.ResultLimit]
	}
	return cards
}

func (h *Hunter) driveSearch(drv PageDriver, name string) ([]string, error) {
	// The search box may sit behind a clickable label; the click is
	// optional on layouts where the input is directly focusable.
	if err := drv.Click(searchOverlay); err != nil {
		h.logger.Debug("[hunt] Search overlay not clickable: %v", err)
	}

	typeDelay := time.Duration(h.cfg.TypeDelayMs) * time.Millisecond
	if err := drv.TypeInto(searchBox, name, typeDelay); err != nil {
		return nil, fmt.Errorf("type search query: %w", err)
	}
	if err := drv.PressKey(KeyEnter); err != nil {
		return nil, fmt.Errorf("submit search: %w", err)
	}
	if err := drv.WaitForSettle(time.Duration(h.cfg.SettleMs) * time.Millisecond); err != nil {
		return nil, fmt.Errorf("wait for results: %w", err)
	}

	h.captureScreenshot(drv, name)

	return drv.ExtractText(h.cardScript())
}

// captureScreenshot stores a diagnostic screenshot for one target. Purely
// diagnostic — failures are soft.
func (h *Hunter) captureScreenshot(drv PageDriver, name string) {
	path := filepath.Join(h.cfg.ScreenshotDir, "hunt_"+SanitizeTargetName(name)+".png")
	if err := drv.Screenshot(path); err != nil {
		h.logger.Warn("[hunt] Screenshot failed for %q: %v", name, err)
	}
}

// SanitizeTargetName makes a target name safe for use in a filename by
// replacing every disallowed rune with an underscore.
func SanitizeTargetName(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// cardScript returns the extraction script that collects the text of up
// to ResultLimit result cards, in display order.
func (h *Hunter) cardScript() string {
	return fmt.Sprintf(`
		(function() {
			var cards = document.querySelectorAll('a[href*="/adopt-me/shop/"]');
			var results = [];
			var limit = %d;
			for (var i = 0; i < Math.min(cards.length, limit); i++) {
				var text = cards[i].innerText.trim();
				if (text) results.push(text);
			}
			return results;
		})()
	`, h.cfg.ResultLimit)
}

// currencyProbeScript reads the header currency toggle's label, if any.
const currencyProbeScript = `
	(function() {
		var header = document.querySelector('header');
		if (!header) return [];
		var nodes = header.querySelectorAll('button, div');
		for (var i = 0; i < nodes.length; i++) {
			var text = (nodes[i].textContent || '').trim();
			if (text.length <= 8 && /[$€]|USD|EUR/.test(text)) {
				return [text];
			}
		}
		return [];
	})()
`

// currencyToggleScript clicks the header currency toggle to open the
// currency menu.
const currencyToggleScript = `
	(function() {
		var header = document.querySelector('header');
		if (!header) return [];
		var nodes = header.querySelectorAll('button, div');
		for (var i = 0; i < nodes.length; i++) {
			var text = (nodes[i].textContent || '').trim();
			if (text.length <= 8 && /[$€]|USD|EUR/.test(text)) {
				nodes[i].click();
				return [text];
			}
		}
		return [];
	})()
`
