package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings required to reach the document store.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided. Failures wrap domain.ErrStoreUnavailable.
func Connect(ctx context.Context, cfg Config, log zerolog.Logger) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("travel-catalog").
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w: %v", domain.ErrStoreUnavailable, err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w: %v", domain.ErrStoreUnavailable, err)
	}

	log.Info().Str("database", cfg.Database).Msg("connected to document store")
	return client, client.Database(cfg.Database), nil
}
