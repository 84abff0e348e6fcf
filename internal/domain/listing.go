package domain

import "time"

type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "available"
	ListingStatusSold      ListingStatus = "sold"
)

// Listing is a property record tracked by the system. Status moves from
// available to sold at most once, and only through the purchase workflow.
type Listing struct {
	ID        string
	Title     string
	City      string
	Price     int64
	Status    ListingStatus
	CreatedAt time.Time
}
