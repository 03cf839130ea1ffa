package services

import (
	"fmt"
	"sort"
	"strings"

	"starpets-hunter/models"
	"starpets-hunter/utils"
)

// SummaryService computes and prints per-run statistics over the scraped
// listings.
type SummaryService struct {
	logger *utils.Logger
}

func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

// Generate builds a RunSummary for one hunt run.
func (s *SummaryService) Generate(listings []*models.Listing, targets []models.Target, alerts []*models.Alert) *models.RunSummary {
	summary := &models.RunSummary{
		ListingsByTarget: make(map[string]int),
		AlertCount:       len(alerts),
	}

	if len(listings) == 0 {
		return summary
	}

	summary.TotalListings = len(listings)

	names := make(map[string]struct{})
	var total float64

	for _, l := range listings {
		names[l.Name] = struct{}{}
		total += l.Price

		if summary.Cheapest == nil || l.Price < summary.Cheapest.Price {
			summary.Cheapest = l
			summary.MinPrice = l.Price
		}
		if l.Price > summary.MaxPrice {
			summary.MaxPrice = l.Price
		}

		if t, found := matchTarget(l.Name, targets); found {
			summary.ListingsByTarget[t.Name]++
		} else {
			summary.UnmatchedListings++
		}
	}

	summary.DistinctNames = len(names)
	summary.AveragePrice = total / float64(len(listings))

	return summary
}

// Print writes a human-readable report to the log.
func (s *SummaryService) Print(r *models.RunSummary) {
	s.logger.Info("%s", strings.Repeat("=", 50))
	s.logger.Info("  HUNT SUMMARY")
	s.logger.Info("%s", strings.Repeat("=", 50))
	s.logger.Info("  Listings observed : %d (%d distinct names)", r.TotalListings, r.DistinctNames)

	if r.TotalListings > 0 {
		s.logger.Info("  Price range       : %.2f€ – %.2f€ (avg %.2f€)", r.MinPrice, r.MaxPrice, r.AveragePrice)
	}
	if r.Cheapest != nil {
		s.logger.Info("  Cheapest find     : %s at %.2f€", r.Cheapest.Name, r.Cheapest.Price)
	}

	if len(r.ListingsByTarget) > 0 {
		targetNames := make([]string, 0, len(r.ListingsByTarget))
		for name := range r.ListingsByTarget {
			targetNames = append(targetNames, name)
		}
		sort.Strings(targetNames)
		for _, name := range targetNames {
			s.logger.Info("  %s", fmt.Sprintf("%-18s: %d listings", name, r.ListingsByTarget[name]))
		}
	}

	if r.UnmatchedListings > 0 {
		s.logger.Info("  Unmatched         : %d listings", r.UnmatchedListings)
	}
	s.logger.Info("  Alerts            : %d", r.AlertCount)
	s.logger.Info("%s", strings.Repeat("=", 50))
}
