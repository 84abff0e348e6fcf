// Package mongo implements the listing and sale collections on top of the
// official MongoDB driver. Mutual exclusion between concurrent buyers rests
// on the server-side conditional update in MarkSold, not on any client lock.
package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mridulgandhi29/real-estate-tracker/internal/app"
	"github.com/mridulgandhi29/real-estate-tracker/internal/domain"
)

const (
	ListingsCollection = "properties"
	SalesCollection    = "transactions"
)

type listingDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	City      string             `bson:"city"`
	Price     int64              `bson:"price"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d listingDoc) toDomain() domain.Listing {
	return domain.Listing{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		City:      d.City,
		Price:     d.Price,
		Status:    domain.ListingStatus(d.Status),
		CreatedAt: d.CreatedAt,
	}
}

type ListingStore struct {
	col *mongo.Collection
}

func NewListingStore(db *mongo.Database) *ListingStore {
	return &ListingStore{col: db.Collection(ListingsCollection)}
}

// MarkSold flips the listing to sold if and only if it is currently
// available, as one server-side conditional update. It reports whether this
// caller was the one that performed the transition.
func (s *ListingStore) MarkSold(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}

	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": oid, "status": string(domain.ListingStatusAvailable)},
		bson.M{"$set": bson.M{"status": string(domain.ListingStatusSold)}},
	)
	if err != nil {
		return false, fmt.Errorf("mark sold: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (s *ListingStore) Insert(ctx context.Context, l domain.Listing) (string, error) {
	doc := listingDoc{
		Title:     l.Title,
		City:      l.City,
		Price:     l.Price,
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt,
	}
	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert listing: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert listing: unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *ListingStore) Get(ctx context.Context, id string) (domain.Listing, error) {
	oid, err := parseID(id)
	if err != nil {
		return domain.Listing{}, err
	}

	var doc listingDoc
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return domain.Listing{}, domain.ErrListingNotFound
		}
		return domain.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *ListingStore) List(ctx context.Context, page, perPage int) ([]domain.Listing, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "price", Value: 1}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))

	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return decodeListings(ctx, cur)
}

func (s *ListingStore) FindByCity(ctx context.Context, city string) ([]domain.Listing, error) {
	// Partial, case-insensitive match; the fragment is quoted so user
	// input cannot smuggle regex syntax into the filter.
	filter := bson.M{"city": primitive.Regex{Pattern: regexp.QuoteMeta(city), Options: "i"}}

	cur, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find by city: %w", err)
	}
	return decodeListings(ctx, cur)
}

func (s *ListingStore) UpdatePrice(ctx context.Context, id string, price int64) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"price": price}})
	if err != nil {
		return false, fmt.Errorf("update price: %w", err)
	}
	return res.MatchedCount == 1, nil
}

func (s *ListingStore) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete listing: %w", err)
	}
	return res.DeletedCount == 1, nil
}

func (s *ListingStore) EnsureIndexes(ctx context.Context) ([]string, error) {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "city", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
	}
	names, err := s.col.Indexes().CreateMany(ctx, models)
	if err != nil {
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return names, nil
}

func (s *ListingStore) All(ctx context.Context) ([]domain.Listing, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("all listings: %w", err)
	}
	return decodeListings(ctx, cur)
}

func (s *ListingStore) AvgPriceByCity(ctx context.Context) ([]app.CityAverage, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$city"},
			{Key: "avgPrice", Value: bson.D{{Key: "$avg", Value: "$price"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("avg price by city: %w", err)
	}
	defer cur.Close(ctx)

	var out []app.CityAverage
	for cur.Next(ctx) {
		var row struct {
			City     string  `bson:"_id"`
			AvgPrice float64 `bson:"avgPrice"`
			Count    int64   `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode aggregate row: %w", err)
		}
		out = append(out, app.CityAverage{City: row.City, AvgPrice: row.AvgPrice, Count: row.Count})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("avg price by city: %w", err)
	}
	return out, nil
}

func decodeListings(ctx context.Context, cur *mongo.Cursor) ([]domain.Listing, error) {
	defer cur.Close(ctx)

	var out []domain.Listing
	for cur.Next(ctx) {
		var doc listingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode listing: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return out, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return oid, nil
}
