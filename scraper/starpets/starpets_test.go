package starpets

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"starpets-hunter/config"
	"starpets-hunter/models"
	"starpets-hunter/utils"
)

// fakeDriver is an in-memory PageDriver. Each typed search query is
// answered from the cards map; names listed in failOn make every search
// step for that query fail.
type fakeDriver struct {
	cards  map[string][]string
	failOn map[string]bool

	lastQuery string
	closed    bool

	typedQueries []string
	screenshots  []string
	pressedEnter int
}

func (f *fakeDriver) Navigate(url string, timeout time.Duration) error { return nil }
func (f *fakeDriver) WaitForSettle(d time.Duration) error              { return nil }
func (f *fakeDriver) Click(query string) error                         { return nil }
func (f *fakeDriver) PressKey(key string) error {
	f.pressedEnter++
	return nil
}

func (f *fakeDriver) TypeInto(selector, text string, keyDelay time.Duration) error {
	f.typedQueries = append(f.typedQueries, text)
	if f.failOn[text] {
		return errors.New("search box gone")
	}
	f.lastQuery = text
	return nil
}

func (f *fakeDriver) ExtractText(script string) ([]string, error) {
	if strings.Contains(script, "header") {
		// currency probe: already EUR
		return []string{"€ EUR"}, nil
	}
	return f.cards[f.lastQuery], nil
}

func (f *fakeDriver) Screenshot(path string) error {
	f.screenshots = append(f.screenshots, path)
	return nil
}

func (f *fakeDriver) Close() error {
	f.closed = true
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		MarketURL:     "https://starpets.gg",
		ScreenshotDir: t.TempDir(),
		ResultLimit:   10,
		TypeDelayMs:   0,
		SettleMs:      0,
		HydrateMs:     0,
		NavTimeoutS:   1,
	}
}

func newTestHunter(t *testing.T, drv *fakeDriver) *Hunter {
	t.Helper()
	h := New(testConfig(t), utils.NewLogger())
	h.newDriver = func() (PageDriver, error) { return drv, nil }
	return h
}

func card(lines ...string) string { return strings.Join(lines, "\n") }

func TestHuntClassifiesSearchResults(t *testing.T) {
	drv := &fakeDriver{cards: map[string][]string{
		"Shadow Dragon": {
			card("Shadow", "Dragon", "4.99 $"),
			card("garbage"), // rejected: single line
		},
	}}
	h := newTestHunter(t, drv)

	listings, err := h.Hunt([]models.Target{{Name: "Shadow Dragon", MaxPrice: 5}})
	if err != nil {
		t.Fatalf("Hunt: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	if listings[0].Name != "Shadow Dragon" || listings[0].Price != 4.99 {
		t.Errorf("unexpected listing: %+v", listings[0])
	}
	if drv.pressedEnter != 1 {
		t.Errorf("expected 1 search submission, got %d", drv.pressedEnter)
	}
	if !drv.closed {
		t.Error("driver session was not closed")
	}
}

func TestHuntIsolatesPerTargetFailure(t *testing.T) {
	cards := map[string][]string{
		"First":  {card("First", "1.00 $")},
		"Second": {card("Second", "2.00 $")},
		"Third":  {card("Third", "3.00 $")},
	}
	targets := []models.Target{
		{Name: "First", MaxPrice: 5},
		{Name: "Second", MaxPrice: 5},
		{Name: "Third", MaxPrice: 5},
	}

	clean := &fakeDriver{cards: cards}
	h := newTestHunter(t, clean)
	baseline, err := h.Hunt(targets)
	if err != nil {
		t.Fatalf("Hunt: %v", err)
	}

	faulty := &fakeDriver{cards: cards, failOn: map[string]bool{"Second": true}}
	h = newTestHunter(t, faulty)
	listings, err := h.Hunt(targets)
	if err != nil {
		t.Fatalf("a per-target failure must not fail the run: %v", err)
	}

	if len(listings) != len(baseline)-1 {
		t.Fatalf("expected %d listings, got %d", len(baseline)-1, len(listings))
	}
	for _, l := range listings {
		if l.Name == "Second" {
			t.Errorf("failed target produced a listing: %+v", l)
		}
	}
	// Targets after the failing one were still searched.
	if got := faulty.typedQueries; len(got) != 3 || got[2] != "Third" {
		t.Errorf("expected all 3 targets searched in order, got %v", got)
	}
	if !faulty.closed {
		t.Error("driver session was not closed after a partial failure")
	}
}

func TestHuntSharedRunTimestamp(t *testing.T) {
	drv := &fakeDriver{cards: map[string][]string{
		"First":  {card("First", "1.00 $")},
		"Second": {card("Second", "2.00 $")},
	}}
	h := newTestHunter(t, drv)

	listings, err := h.Hunt([]models.Target{
		{Name: "First", MaxPrice: 5},
		{Name: "Second", MaxPrice: 5},
	})
	if err != nil {
		t.Fatalf("Hunt: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}
	if !listings[0].Timestamp.Equal(listings[1].Timestamp) {
		t.Errorf("listings of one run must share a timestamp: %v vs %v",
			listings[0].Timestamp, listings[1].Timestamp)
	}
	if listings[0].Timestamp.Location() != time.UTC {
		t.Errorf("run timestamp not UTC: %v", listings[0].Timestamp.Location())
	}
}

func TestHuntCapsResultsPerTarget(t *testing.T) {
	var many []string
	for i := 0; i < 25; i++ {
		many = append(many, card("Pet", fmt.Sprintf("%d.00 $", i+1)))
	}
	drv := &fakeDriver{cards: map[string][]string{"Pet": many}}

	h := newTestHunter(t, drv)
	h.cfg.ResultLimit = 10

	listings, err := h.Hunt([]models.Target{{Name: "Pet", MaxPrice: 100}})
	if err != nil {
		t.Fatalf("Hunt: %v", err)
	}
	if len(listings) != 10 {
		t.Errorf("expected results capped at 10, got %d", len(listings))
	}
}

func TestHuntEmptyTargetListIsNoOp(t *testing.T) {
	h := New(testConfig(t), utils.NewLogger())
	h.newDriver = func() (PageDriver, error) {
		t.Error("no session should be opened for an empty target list")
		return nil, errors.New("unreachable")
	}

	listings, err := h.Hunt(nil)
	if err != nil {
		t.Fatalf("Hunt: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("expected no listings, got %d", len(listings))
	}
}

func TestHuntTakesScreenshotPerTarget(t *testing.T) {
	drv := &fakeDriver{cards: map[string][]string{}}
	h := newTestHunter(t, drv)

	_, err := h.Hunt([]models.Target{
		{Name: "Shadow Dragon", MaxPrice: 5},
		{Name: "Frost Fury", MaxPrice: 2},
	})
	if err != nil {
		t.Fatalf("Hunt: %v", err)
	}
	if len(drv.screenshots) != 2 {
		t.Fatalf("expected 2 screenshots, got %d", len(drv.screenshots))
	}
	if !strings.HasSuffix(drv.screenshots[0], "hunt_Shadow Dragon.png") {
		t.Errorf("unexpected screenshot path: %q", drv.screenshots[0])
	}
}

func TestSanitizeTargetName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Shadow Dragon", "Shadow Dragon"},
		{"Neon/Fly: Ride?", "Neon_Fly_ Ride_"},
		{"owl (fr)", "owl _fr_"},
		{"a.b-c_d", "a.b-c_d"},
	}

	for _, tt := range tests {
		if got := SanitizeTargetName(tt.in); got != tt.want {
			t.Errorf("SanitizeTargetName(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
