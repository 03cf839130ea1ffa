package storage

import "starpets-hunter/models"

// HistoryWriter is the interface any history backend must satisfy. The
// history is an unfiltered audit trail: implementations append every
// listing they are handed, in order, and never rewrite earlier rows.
type HistoryWriter interface {
	Append(listings []*models.Listing) error
	Close() error
}
