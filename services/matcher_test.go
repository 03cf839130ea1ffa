package services

import (
	"testing"
	"time"

	"starpets-hunter/models"
	"starpets-hunter/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func listing(name string, price float64) *models.Listing {
	return &models.Listing{Timestamp: time.Now().UTC(), Name: name, Price: price}
}

func TestMatcherExactMatchWithinBudget(t *testing.T) {
	m := NewMatcher(newTestLogger())
	targets := []models.Target{{Name: "Shadow Dragon", MaxPrice: 5.0}}

	alerts := m.Match([]*models.Listing{listing("Shadow Dragon", 4.99)}, targets)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.TargetName != "Shadow Dragon" || a.ObservedName != "Shadow Dragon" {
		t.Errorf("unexpected alert names: %+v", a)
	}
	if a.Price != 4.99 || a.MaxPrice != 5.0 {
		t.Errorf("unexpected alert prices: %+v", a)
	}
}

func TestMatcherOverBudgetProducesNoAlert(t *testing.T) {
	m := NewMatcher(newTestLogger())
	targets := []models.Target{{Name: "Shadow Dragon", MaxPrice: 5.0}}

	alerts := m.Match([]*models.Listing{listing("Shadow Dragon", 6.50)}, targets)
	if len(alerts) != 0 {
		t.Errorf("expected no alerts for over-budget listing, got %d", len(alerts))
	}
}

func TestMatcherSubstringFallback(t *testing.T) {
	m := NewMatcher(newTestLogger())
	targets := []models.Target{{Name: "Dragon", MaxPrice: 10.0}}

	alerts := m.Match([]*models.Listing{listing("Golden Dragon", 7.25)}, targets)
	if len(alerts) != 1 {
		t.Fatalf("expected substring fallback to match, got %d alerts", len(alerts))
	}
	if alerts[0].TargetName != "Dragon" || alerts[0].ObservedName != "Golden Dragon" {
		t.Errorf("unexpected alert: %+v", alerts[0])
	}
}

func TestMatcherSubstringIsCaseInsensitive(t *testing.T) {
	m := NewMatcher(newTestLogger())
	targets := []models.Target{{Name: "dragon", MaxPrice: 10.0}}

	alerts := m.Match([]*models.Listing{listing("Golden DRAGON", 7.25)}, targets)
	if len(alerts) != 1 {
		t.Errorf("expected case-insensitive fallback match, got %d alerts", len(alerts))
	}
}

func TestMatcherFallbackTakesFirstConfiguredTarget(t *testing.T) {
	m := NewMatcher(newTestLogger())
	targets := []models.Target{
		{Name: "Golden", MaxPrice: 3.0},
		{Name: "Dragon", MaxPrice: 10.0},
	}

	// Both target names are substrings; the first configured one wins,
	// so the listing must beat the stricter 3.0 budget.
	alerts := m.Match([]*models.Listing{listing("Golden Dragon", 7.25)}, targets)
	if len(alerts) != 0 {
		t.Fatalf("expected first-configured target to apply, got %d alerts", len(alerts))
	}

	alerts = m.Match([]*models.Listing{listing("Golden Dragon", 2.50)}, targets)
	if len(alerts) != 1 || alerts[0].TargetName != "Golden" {
		t.Errorf("expected match against %q, got %+v", "Golden", alerts)
	}
}

func TestMatcherDeduplicatesToMinimumPrice(t *testing.T) {
	m := NewMatcher(newTestLogger())
	targets := []models.Target{{Name: "Shadow Dragon", MaxPrice: 5.0}}

	alerts := m.Match([]*models.Listing{
		listing("Shadow Dragon", 3.00),
		listing("Shadow Dragon", 2.50),
		listing("Shadow Dragon", 4.75),
	}, targets)

	if len(alerts) != 1 {
		t.Fatalf("expected exactly 1 alert per distinct name, got %d", len(alerts))
	}
	if alerts[0].Price != 2.50 {
		t.Errorf("expected minimum price 2.50, got %v", alerts[0].Price)
	}
}

func TestMatcherOneAlertPerDistinctObservedName(t *testing.T) {
	m := NewMatcher(newTestLogger())
	targets := []models.Target{{Name: "Dragon", MaxPrice: 10.0}}

	alerts := m.Match([]*models.Listing{
		listing("Golden Dragon", 4.00),
		listing("Shadow Dragon", 3.00),
		listing("Golden Dragon", 5.00),
	}, targets)

	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts (one per observed name), got %d", len(alerts))
	}
	// First-seen order is preserved.
	if alerts[0].ObservedName != "Golden Dragon" || alerts[1].ObservedName != "Shadow Dragon" {
		t.Errorf("unexpected alert order: %q, %q", alerts[0].ObservedName, alerts[1].ObservedName)
	}
}

func TestMatcherUnmatchedListingProducesNoAlert(t *testing.T) {
	m := NewMatcher(newTestLogger())
	targets := []models.Target{{Name: "Shadow Dragon", MaxPrice: 5.0}}

	alerts := m.Match([]*models.Listing{listing("Frost Fury", 1.00)}, targets)
	if len(alerts) != 0 {
		t.Errorf("expected no alerts for unmatched listing, got %d", len(alerts))
	}
}

func TestMatcherNoTargets(t *testing.T) {
	m := NewMatcher(newTestLogger())

	alerts := m.Match([]*models.Listing{listing("Shadow Dragon", 1.00)}, nil)
	if len(alerts) != 0 {
		t.Errorf("expected no alerts without targets, got %d", len(alerts))
	}
}
