package domain

// PurchaseOutcome is the terminal business result of a purchase attempt.
// It is deliberately four-valued rather than boolean: the degraded and
// unrecorded variants carry information a caller must not lose.
type PurchaseOutcome string

const (
	// OutcomeSold means the listing update and the sale record were
	// committed together in one transaction.
	OutcomeSold PurchaseOutcome = "sold"

	// OutcomeSoldDegraded means the backend does not support
	// multi-document transactions; the update and the record were applied
	// sequentially and both succeeded.
	OutcomeSoldDegraded PurchaseOutcome = "sold_degraded"

	// OutcomeSoldUnrecorded means the listing was marked sold but the
	// sale record failed to persist. The sale needs manual reconciliation.
	OutcomeSoldUnrecorded PurchaseOutcome = "sold_unrecorded"

	// OutcomeUnavailable means the listing was already sold, or does not
	// exist as a sellable document. No effects were applied.
	OutcomeUnavailable PurchaseOutcome = "unavailable"
)

// Recorded reports whether the outcome left a matching sale record behind.
func (o PurchaseOutcome) Recorded() bool {
	return o == OutcomeSold || o == OutcomeSoldDegraded
}

// Sold reports whether the listing ended up marked sold.
func (o PurchaseOutcome) Sold() bool {
	return o == OutcomeSold || o == OutcomeSoldDegraded || o == OutcomeSoldUnrecorded
}
