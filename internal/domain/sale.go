package domain

import "time"

// SaleRecord is the ledger entry written when a listing is purchased.
// It references the listing by ID and is never updated or deleted.
type SaleRecord struct {
	ID         string
	ListingID  string
	BuyerName  string
	OfferPrice int64
	Date       time.Time
}
