package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mridulgandhi29/real-estate-tracker/internal/clock"
	"github.com/mridulgandhi29/real-estate-tracker/internal/domain"
)

type fakeListingStore struct {
	mu       sync.Mutex
	statuses map[string]domain.ListingStatus
	calls    int
	failErr  error
}

func newFakeListingStore(statuses map[string]domain.ListingStatus) *fakeListingStore {
	return &fakeListingStore{statuses: statuses}
}

func (f *fakeListingStore) MarkSold(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failErr != nil {
		return false, f.failErr
	}
	if f.statuses[id] != domain.ListingStatusAvailable {
		return false, nil
	}
	f.statuses[id] = domain.ListingStatusSold
	return true, nil
}

func (f *fakeListingStore) status(id string) domain.ListingStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[id]
}

type fakeSaleLedger struct {
	mu      sync.Mutex
	records []domain.SaleRecord
	calls   int
	failErr error
}

func (f *fakeSaleLedger) Append(ctx context.Context, rec domain.SaleRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failErr != nil {
		return f.failErr
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeSaleLedger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// fakeAtomicRunner mimics a backend with transaction support: on failure it
// rolls the fakes back so no partial effects remain.
type fakeAtomicRunner struct {
	store  *fakeListingStore
	ledger *fakeSaleLedger
	mu     sync.Mutex
}

func (f *fakeAtomicRunner) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.store.mu.Lock()
	prevStatuses := make(map[string]domain.ListingStatus, len(f.store.statuses))
	for k, v := range f.store.statuses {
		prevStatuses[k] = v
	}
	f.store.mu.Unlock()

	f.ledger.mu.Lock()
	prevRecords := len(f.ledger.records)
	f.ledger.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.store.mu.Lock()
		f.store.statuses = prevStatuses
		f.store.mu.Unlock()
		f.ledger.mu.Lock()
		f.ledger.records = f.ledger.records[:prevRecords]
		f.ledger.mu.Unlock()
		return err
	}
	return nil
}

// unsupportedAtomicRunner mimics a standalone server that rejects the
// transactional capability before running anything.
type unsupportedAtomicRunner struct {
	mu    sync.Mutex
	calls int
}

func (u *unsupportedAtomicRunner) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	u.mu.Lock()
	u.calls++
	u.mu.Unlock()
	return domain.ErrTxnUnsupported
}

func fixedNow() clock.Clock {
	return clock.NewFixed(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
}

func TestPurchaseService_AtomicPath(t *testing.T) {
	t.Parallel()

	t.Run("commits update and record together", func(t *testing.T) {
		store := newFakeListingStore(map[string]domain.ListingStatus{"L1": domain.ListingStatusAvailable})
		ledger := &fakeSaleLedger{}
		svc := NewPurchaseService(store, ledger, &fakeAtomicRunner{store: store, ledger: ledger}, fixedNow(), nil)

		res, err := svc.Purchase(context.Background(), PurchaseInput{ListingID: "L1", BuyerName: "Ann", OfferPrice: 500000})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.Outcome != domain.OutcomeSold {
			t.Fatalf("expected sold, got %s", res.Outcome)
		}
		if store.status("L1") != domain.ListingStatusSold {
			t.Fatalf("expected listing sold, got %s", store.status("L1"))
		}
		if ledger.count() != 1 {
			t.Fatalf("expected 1 sale record, got %d", ledger.count())
		}
		rec := ledger.records[0]
		if rec.BuyerName != "Ann" || rec.OfferPrice != 500000 || rec.ListingID != "L1" {
			t.Fatalf("unexpected record %+v", rec)
		}
	})

	t.Run("already sold resolves unavailable with no effects", func(t *testing.T) {
		store := newFakeListingStore(map[string]domain.ListingStatus{"L1": domain.ListingStatusSold})
		ledger := &fakeSaleLedger{}
		svc := NewPurchaseService(store, ledger, &fakeAtomicRunner{store: store, ledger: ledger}, fixedNow(), nil)

		for i := 0; i < 3; i++ {
			res, err := svc.Purchase(context.Background(), PurchaseInput{ListingID: "L1", BuyerName: "Ann", OfferPrice: 100})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if res.Outcome != domain.OutcomeUnavailable {
				t.Fatalf("expected unavailable, got %s", res.Outcome)
			}
		}
		if ledger.count() != 0 {
			t.Fatalf("expected no sale records, got %d", ledger.count())
		}
	})

	t.Run("ledger failure aborts with no partial effects", func(t *testing.T) {
		store := newFakeListingStore(map[string]domain.ListingStatus{"L1": domain.ListingStatusAvailable})
		ledger := &fakeSaleLedger{failErr: errors.New("write concern timeout")}
		svc := NewPurchaseService(store, ledger, &fakeAtomicRunner{store: store, ledger: ledger}, fixedNow(), nil)

		_, err := svc.Purchase(context.Background(), PurchaseInput{ListingID: "L1", BuyerName: "Ann", OfferPrice: 100})
		if err == nil {
			t.Fatalf("expected transaction error")
		}
		if store.status("L1") != domain.ListingStatusAvailable {
			t.Fatalf("expected rollback to available, got %s", store.status("L1"))
		}
		if ledger.count() != 0 {
			t.Fatalf("expected no sale records, got %d", ledger.count())
		}
	})
}

func TestPurchaseService_FallbackPath(t *testing.T) {
	t.Parallel()

	t.Run("unsupported backend degrades to sequential path", func(t *testing.T) {
		store := newFakeListingStore(map[string]domain.ListingStatus{"L1": domain.ListingStatusAvailable})
		ledger := &fakeSaleLedger{}
		svc := NewPurchaseService(store, ledger, &unsupportedAtomicRunner{}, fixedNow(), nil)

		res, err := svc.Purchase(context.Background(), PurchaseInput{ListingID: "L1", BuyerName: "Bob", OfferPrice: 510000})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.Outcome != domain.OutcomeSoldDegraded {
			t.Fatalf("expected sold_degraded, got %s", res.Outcome)
		}
		// Same end state as the atomic path.
		if store.status("L1") != domain.ListingStatusSold {
			t.Fatalf("expected listing sold, got %s", store.status("L1"))
		}
		if ledger.count() != 1 {
			t.Fatalf("expected 1 sale record, got %d", ledger.count())
		}
	})

	t.Run("unsupported backend on sold listing is unavailable", func(t *testing.T) {
		store := newFakeListingStore(map[string]domain.ListingStatus{"L1": domain.ListingStatusSold})
		ledger := &fakeSaleLedger{}
		svc := NewPurchaseService(store, ledger, &unsupportedAtomicRunner{}, fixedNow(), nil)

		res, err := svc.Purchase(context.Background(), PurchaseInput{ListingID: "L1", BuyerName: "Bob", OfferPrice: 100})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res.Outcome != domain.OutcomeUnavailable {
			t.Fatalf("expected unavailable, got %s", res.Outcome)
		}
	})

	t.Run("ledger failure after update is sold_unrecorded", func(t *testing.T) {
		store := newFakeListingStore(map[string]domain.ListingStatus{"L1": domain.ListingStatusAvailable})
		wantErr := errors.New("connection reset")
		ledger := &fakeSaleLedger{failErr: wantErr}
		svc := NewPurchaseService(store, ledger, &unsupportedAtomicRunner{}, fixedNow(), nil)

		res, err := svc.Purchase(context.Background(), PurchaseInput{ListingID: "L1", BuyerName: "Bob", OfferPrice: 100})
		if err != nil {
			t.Fatalf("partial failure must not be an error return, got %v", err)
		}
		if res.Outcome != domain.OutcomeSoldUnrecorded {
			t.Fatalf("expected sold_unrecorded, got %s", res.Outcome)
		}
		if !errors.Is(res.RecordErr, wantErr) {
			t.Fatalf("expected record error %v, got %v", wantErr, res.RecordErr)
		}
		if store.status("L1") != domain.ListingStatusSold {
			t.Fatalf("expected listing sold, got %s", store.status("L1"))
		}
		if ledger.count() != 0 {
			t.Fatalf("expected no sale records, got %d", ledger.count())
		}
	})

	t.Run("store failure on fallback update surfaces as error", func(t *testing.T) {
		store := newFakeListingStore(map[string]domain.ListingStatus{"L1": domain.ListingStatusAvailable})
		store.failErr = errors.New("socket timeout")
		ledger := &fakeSaleLedger{}
		svc := NewPurchaseService(store, ledger, &unsupportedAtomicRunner{}, fixedNow(), nil)

		_, err := svc.Purchase(context.Background(), PurchaseInput{ListingID: "L1", BuyerName: "Bob", OfferPrice: 100})
		if err == nil {
			t.Fatalf("expected error")
		}
		if ledger.calls != 0 {
			t.Fatalf("expected no ledger calls, got %d", ledger.calls)
		}
	})
}

func TestPurchaseService_Validation(t *testing.T) {
	t.Parallel()

	store := newFakeListingStore(map[string]domain.ListingStatus{"L1": domain.ListingStatusAvailable})
	ledger := &fakeSaleLedger{}
	runner := &unsupportedAtomicRunner{}
	svc := NewPurchaseService(store, ledger, runner, fixedNow(), nil)

	cases := []struct {
		name string
		in   PurchaseInput
		want error
	}{
		{"empty buyer", PurchaseInput{ListingID: "L1", BuyerName: "", OfferPrice: 100}, domain.ErrBuyerRequired},
		{"blank buyer", PurchaseInput{ListingID: "L1", BuyerName: "   ", OfferPrice: 100}, domain.ErrBuyerRequired},
		{"negative offer", PurchaseInput{ListingID: "L1", BuyerName: "Ann", OfferPrice: -5}, domain.ErrNegativePrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Purchase(context.Background(), tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if store.calls != 0 || ledger.calls != 0 || runner.calls != 0 {
		t.Fatalf("validation must not touch the store: store=%d ledger=%d atomic=%d",
			store.calls, ledger.calls, runner.calls)
	}
}

func TestPurchaseService_ConcurrentBuyers(t *testing.T) {
	t.Parallel()

	t.Run("exactly one winner on the atomic path", func(t *testing.T) {
		store := newFakeListingStore(map[string]domain.ListingStatus{"L1": domain.ListingStatusAvailable})
		ledger := &fakeSaleLedger{}
		svc := NewPurchaseService(store, ledger, &fakeAtomicRunner{store: store, ledger: ledger}, fixedNow(), nil)

		const buyers = 16
		results := make([]PurchaseResult, buyers)
		var wg sync.WaitGroup
		for i := 0; i < buyers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				res, err := svc.Purchase(context.Background(), PurchaseInput{ListingID: "L1", BuyerName: "buyer", OfferPrice: int64(i)})
				if err != nil {
					t.Errorf("purchase %d: %v", i, err)
					return
				}
				results[i] = res
			}(i)
		}
		wg.Wait()

		sold, unavailable := 0, 0
		for _, res := range results {
			switch res.Outcome {
			case domain.OutcomeSold, domain.OutcomeSoldDegraded, domain.OutcomeSoldUnrecorded:
				sold++
			case domain.OutcomeUnavailable:
				unavailable++
			}
		}
		if sold != 1 {
			t.Fatalf("expected exactly one winner, got %d", sold)
		}
		if unavailable != buyers-1 {
			t.Fatalf("expected %d unavailable, got %d", buyers-1, unavailable)
		}
		if ledger.count() != 1 {
			t.Fatalf("expected exactly one sale record, got %d", ledger.count())
		}
	})

	t.Run("ann and bob race", func(t *testing.T) {
		store := newFakeListingStore(map[string]domain.ListingStatus{"L1": domain.ListingStatusAvailable})
		ledger := &fakeSaleLedger{}
		svc := NewPurchaseService(store, ledger, &fakeAtomicRunner{store: store, ledger: ledger}, fixedNow(), nil)

		var wg sync.WaitGroup
		outcomes := make(map[string]domain.PurchaseOutcome)
		var mu sync.Mutex
		for _, attempt := range []PurchaseInput{
			{ListingID: "L1", BuyerName: "Ann", OfferPrice: 500000},
			{ListingID: "L1", BuyerName: "Bob", OfferPrice: 510000},
		} {
			wg.Add(1)
			go func(in PurchaseInput) {
				defer wg.Done()
				res, err := svc.Purchase(context.Background(), in)
				if err != nil {
					t.Errorf("purchase %s: %v", in.BuyerName, err)
					return
				}
				mu.Lock()
				outcomes[in.BuyerName] = res.Outcome
				mu.Unlock()
			}(attempt)
		}
		wg.Wait()

		annWon := outcomes["Ann"].Sold()
		bobWon := outcomes["Bob"].Sold()
		if annWon == bobWon {
			t.Fatalf("expected exactly one winner, got ann=%s bob=%s", outcomes["Ann"], outcomes["Bob"])
		}
		if ledger.count() != 1 {
			t.Fatalf("expected exactly one sale record, got %d", ledger.count())
		}
		winner := "Ann"
		if bobWon {
			winner = "Bob"
		}
		if ledger.records[0].BuyerName != winner {
			t.Fatalf("expected record for %s, got %s", winner, ledger.records[0].BuyerName)
		}
	})

	t.Run("exactly one winner on the fallback path", func(t *testing.T) {
		store := newFakeListingStore(map[string]domain.ListingStatus{"L1": domain.ListingStatusAvailable})
		ledger := &fakeSaleLedger{}
		svc := NewPurchaseService(store, ledger, &unsupportedAtomicRunner{}, fixedNow(), nil)

		const buyers = 16
		var wg sync.WaitGroup
		var mu sync.Mutex
		sold := 0
		for i := 0; i < buyers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				res, err := svc.Purchase(context.Background(), PurchaseInput{ListingID: "L1", BuyerName: "buyer", OfferPrice: int64(i)})
				if err != nil {
					t.Errorf("purchase %d: %v", i, err)
					return
				}
				if res.Outcome.Sold() {
					mu.Lock()
					sold++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()

		if sold != 1 {
			t.Fatalf("expected exactly one winner, got %d", sold)
		}
		if ledger.count() != 1 {
			t.Fatalf("expected exactly one sale record, got %d", ledger.count())
		}
	})
}
