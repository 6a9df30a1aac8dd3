// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	categorystore "github.com/skarland/obstaclehub/internal/app/store/categories"
	identitystore "github.com/skarland/obstaclehub/internal/app/store/identity"
	reportstore "github.com/skarland/obstaclehub/internal/app/store/reports"
	"github.com/skarland/obstaclehub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection used by the whole app.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, timeouts.Ping())
	defer cancelPing()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", appCfg.MongoMaxPoolSize))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates indexes and seeds reference data.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := reportstore.New(deps.MongoDatabase).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("report indexes: %w", err)
	}
	if err := identitystore.New(deps.MongoDatabase).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("identity indexes: %w", err)
	}
	if err := categorystore.New(deps.MongoDatabase).Seed(ctx); err != nil {
		return fmt.Errorf("category seed: %w", err)
	}
	return nil
}
