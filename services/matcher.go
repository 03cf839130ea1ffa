package services

import (
	"strings"

	"starpets-hunter/models"
	"starpets-hunter/utils"
)

// Matcher decides which observed listings are worth an alert.
type Matcher struct {
	logger *utils.Logger
}

// NewMatcher creates a Matcher with the given logger.
func NewMatcher(logger *utils.Logger) *Matcher {
	return &Matcher{logger: logger}
}

// Match filters the run's listings against the configured targets and
// returns at most one Alert per distinct observed name.
//
// A listing matches a target either exactly (listing name equals the
// trimmed target name) or via fallback: the first target, in configured
// order, whose name appears case-insensitively inside the listing name.
// A matched listing qualifies only when its price does not exceed the
// target's maximum. Among qualifying listings sharing the same observed
// name, only the cheapest survives. Alerts are returned in first-seen
// order of their observed names.
func (m *Matcher) Match(listings []*models.Listing, targets []models.Target) []*models.Alert {
	best := make(map[string]*models.Alert)
	var order []string

	for _, l := range listings {
		target, found := matchTarget(l.Name, targets)
		if !found {
			continue
		}
		if l.Price > target.MaxPrice {
			m.logger.Debug("[matcher] %s at %.2f exceeds max %.2f for %q",
				l.Name, l.Price, target.MaxPrice, target.Name)
			continue
		}

		existing, seen := best[l.Name]
		if !seen {
			order = append(order, l.Name)
		}
		if !seen || l.Price < existing.Price {
			best[l.Name] = &models.Alert{
				TargetName:   target.Name,
				ObservedName: l.Name,
				Price:        l.Price,
				MaxPrice:     target.MaxPrice,
			}
		}
	}

	alerts := make([]*models.Alert, 0, len(best))
	for _, name := range order {
		alerts = append(alerts, best[name])
	}

	m.logger.Info("[matcher] %d listings → %d alerts", len(listings), len(alerts))
	return alerts
}

// matchTarget resolves the target a listing belongs to. Exact name match
// wins; otherwise the first configured target whose name is a
// case-insensitive substring of the listing name is chosen. The
// first-match-in-configured-order fallback is deliberate: when several
// target names are substrings of one listing name, configuration order
// breaks the tie.
func matchTarget(listingName string, targets []models.Target) (models.Target, bool) {
	for _, t := range targets {
		if listingName == t.Name {
			return t, true
		}
	}

	lower := strings.ToLower(listingName)
	for _, t := range targets {
		if strings.Contains(lower, strings.ToLower(t.Name)) {
			return t, true
		}
	}

	return models.Target{}, false
}
