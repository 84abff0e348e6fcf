package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mridulgandhi29/real-estate-tracker/internal/domain"
)

type saleDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	ListingID  primitive.ObjectID `bson:"property_id"`
	BuyerName  string             `bson:"buyer_name"`
	OfferPrice int64              `bson:"price"`
	Date       time.Time          `bson:"date"`
}

// SaleLedger is the append-only collection of completed sales. Records are
// never updated or deleted.
type SaleLedger struct {
	col *mongo.Collection
}

func NewSaleLedger(db *mongo.Database) *SaleLedger {
	return &SaleLedger{col: db.Collection(SalesCollection)}
}

func (l *SaleLedger) Append(ctx context.Context, rec domain.SaleRecord) error {
	oid, err := parseID(rec.ListingID)
	if err != nil {
		return err
	}

	doc := saleDoc{
		ListingID:  oid,
		BuyerName:  rec.BuyerName,
		OfferPrice: rec.OfferPrice,
		Date:       rec.Date,
	}
	if _, err := l.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("append sale: %w", err)
	}
	return nil
}

// ByListing returns the sale records referencing a listing, newest first.
// Used by callers that need to inspect the ledger (exports, tests).
func (l *SaleLedger) ByListing(ctx context.Context, listingID string) ([]domain.SaleRecord, error) {
	oid, err := parseID(listingID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := l.col.Find(ctx, bson.M{"property_id": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("sales by listing: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.SaleRecord
	for cur.Next(ctx) {
		var doc saleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode sale: %w", err)
		}
		out = append(out, domain.SaleRecord{
			ID:         doc.ID.Hex(),
			ListingID:  doc.ListingID.Hex(),
			BuyerName:  doc.BuyerName,
			OfferPrice: doc.OfferPrice,
			Date:       doc.Date,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("sales by listing: %w", err)
	}
	return out, nil
}
