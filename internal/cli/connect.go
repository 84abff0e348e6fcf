package cli

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mridulgandhi29/real-estate-tracker/internal/app"
	"github.com/mridulgandhi29/real-estate-tracker/internal/clock"
	"github.com/mridulgandhi29/real-estate-tracker/internal/config"
	storemongo "github.com/mridulgandhi29/real-estate-tracker/internal/storage/mongo"
)

const dialTimeout = 5 * time.Second

// services bundles the connected store and the application services built
// on it.
type services struct {
	client    *mongo.Client
	listings  *app.ListingService
	purchases *app.PurchaseService
	reports   *app.ReportService
}

func connect(ctx context.Context, cfg config.Config, logger *zap.Logger) (*services, error) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	store := storemongo.NewListingStore(db)
	ledger := storemongo.NewSaleLedger(db)
	runner := storemongo.NewTxnRunner(client)
	clk := clock.NewSystem()

	logger.Info("connected to mongo",
		zap.String("uri", cfg.MongoURI),
		zap.String("database", cfg.Database))

	return &services{
		client:    client,
		listings:  app.NewListingService(store, clk, logger),
		purchases: app.NewPurchaseService(store, ledger, runner, clk, logger),
		reports:   app.NewReportService(store, logger),
	}, nil
}

func (s *services) close() {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	_ = s.client.Disconnect(ctx)
}
