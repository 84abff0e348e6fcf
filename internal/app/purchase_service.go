package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mridulgandhi29/real-estate-tracker/internal/clock"
	"github.com/mridulgandhi29/real-estate-tracker/internal/domain"
)

// PurchaseListingStore is the slice of the listing store the purchase
// workflow depends on: a single conditional update, atomic at the store
// layer, that flips status available -> sold and reports whether it did.
type PurchaseListingStore interface {
	MarkSold(ctx context.Context, listingID string) (bool, error)
}

// SaleLedger appends completed-sale records. An append may fail
// independently of the listing update.
type SaleLedger interface {
	Append(ctx context.Context, rec domain.SaleRecord) error
}

// AtomicRunner executes fn inside a multi-document atomic scope. When the
// backend rejects the transactional capability itself it must return
// domain.ErrTxnUnsupported with no effects applied; any other failure
// aborts the scope (again with no effects) and is propagated as-is.
type AtomicRunner interface {
	RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error
}

// errNotAvailable aborts the atomic scope when the conditional update
// matched nothing. It never leaves this package.
var errNotAvailable = errors.New("listing not available")

type PurchaseService struct {
	listings PurchaseListingStore
	ledger   SaleLedger
	atomic   AtomicRunner
	clock    clock.Clock
	logger   *zap.Logger
}

func NewPurchaseService(listings PurchaseListingStore, ledger SaleLedger, atomic AtomicRunner, clk clock.Clock, logger *zap.Logger) *PurchaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseService{
		listings: listings,
		ledger:   ledger,
		atomic:   atomic,
		clock:    clk,
		logger:   logger,
	}
}

type PurchaseInput struct {
	ListingID  string
	BuyerName  string
	OfferPrice int64
}

// PurchaseResult reports the terminal state of one purchase attempt.
// RecordErr is set only for OutcomeSoldUnrecorded and carries the ledger
// failure that left the sale unrecorded.
type PurchaseResult struct {
	Outcome   domain.PurchaseOutcome
	Record    domain.SaleRecord
	RecordErr error
}

// Purchase drives a listing from available to sold and writes the matching
// sale record. It first attempts both writes in one atomic scope; if the
// backend does not support multi-document transactions it falls back to a
// sequential update-then-record path and reports partial failure distinctly.
//
// At most one concurrent caller can win the conditional update, so no
// in-process locking is needed; the store serializes racing attempts.
func (s *PurchaseService) Purchase(ctx context.Context, in PurchaseInput) (PurchaseResult, error) {
	if strings.TrimSpace(in.BuyerName) == "" {
		return PurchaseResult{}, domain.ErrBuyerRequired
	}
	if in.OfferPrice < 0 {
		return PurchaseResult{}, domain.ErrNegativePrice
	}

	rec := domain.SaleRecord{
		ListingID:  in.ListingID,
		BuyerName:  in.BuyerName,
		OfferPrice: in.OfferPrice,
		Date:       s.clock.Now(),
	}

	err := s.atomic.RunAtomic(ctx, func(txCtx context.Context) error {
		modified, err := s.listings.MarkSold(txCtx, in.ListingID)
		if err != nil {
			return err
		}
		if !modified {
			return errNotAvailable
		}
		return s.ledger.Append(txCtx, rec)
	})
	switch {
	case err == nil:
		s.logger.Info("purchase committed",
			zap.String("listing_id", in.ListingID),
			zap.String("buyer", in.BuyerName))
		return PurchaseResult{Outcome: domain.OutcomeSold, Record: rec}, nil
	case errors.Is(err, errNotAvailable):
		return PurchaseResult{Outcome: domain.OutcomeUnavailable}, nil
	case domain.IsValidation(err):
		return PurchaseResult{}, err
	case errors.Is(err, domain.ErrTxnUnsupported):
		// No effects were applied; retry both steps without a scope.
		s.logger.Warn("backend does not support transactions, using fallback path",
			zap.String("listing_id", in.ListingID))
	default:
		return PurchaseResult{}, fmt.Errorf("atomic purchase: %w", err)
	}

	modified, err := s.listings.MarkSold(ctx, in.ListingID)
	if err != nil {
		if domain.IsValidation(err) {
			return PurchaseResult{}, err
		}
		return PurchaseResult{}, fmt.Errorf("mark sold: %w", err)
	}
	if !modified {
		return PurchaseResult{Outcome: domain.OutcomeUnavailable}, nil
	}

	if err := s.ledger.Append(ctx, rec); err != nil {
		// The listing is already sold and a retry would only observe
		// unavailable, so the gap is surfaced instead of masked.
		s.logger.Error("listing sold but sale record failed",
			zap.String("listing_id", in.ListingID),
			zap.String("buyer", in.BuyerName),
			zap.Error(err))
		return PurchaseResult{Outcome: domain.OutcomeSoldUnrecorded, Record: rec, RecordErr: err}, nil
	}

	s.logger.Info("purchase committed without transaction",
		zap.String("listing_id", in.ListingID),
		zap.String("buyer", in.BuyerName))
	return PurchaseResult{Outcome: domain.OutcomeSoldDegraded, Record: rec}, nil
}
