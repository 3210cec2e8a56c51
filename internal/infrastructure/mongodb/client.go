package mongodb

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/internal/config"
)

// Conn owns a MongoDB client together with the parameters needed to
// re-dial a dropped connection. Safe for concurrent use.
type Conn struct {
	cfg    config.MongoConfig
	logger *zap.Logger

	mu     sync.RWMutex
	client *mongo.Client
}

// Connect dials MongoDB and verifies the connection with a bounded
// ping. A failed dial is logged and leaves the Conn disconnected;
// operations re-dial lazily through Ensure.
func Connect(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) *Conn {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Conn{cfg: cfg, logger: logger}
	if err := c.dial(ctx); err != nil {
		logger.Warn("mongodb unreachable, starting disconnected", zap.Error(err))
	}
	return c
}

func (c *Conn) dial(ctx context.Context) error {
	opts := options.Client().
		ApplyURI(c.cfg.URI).
		SetServerSelectionTimeout(c.cfg.ConnectTimeout).
		SetConnectTimeout(c.cfg.ConnectTimeout).
		SetMaxPoolSize(uint64(c.cfg.MaxPoolSize)).
		SetMinPoolSize(uint64(c.cfg.MinPoolSize))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return err
	}

	pingCtx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return err
	}

	c.mu.Lock()
	old := c.client
	c.client = client
	c.mu.Unlock()
	if old != nil {
		_ = old.Disconnect(ctx)
	}

	c.logger.Info("connected to mongodb",
		zap.String("host", c.cfg.Host),
		zap.String("database", c.cfg.Database))
	return nil
}

// Ping reports whether the backend answers, swallowing transport
// errors.
func (c *Conn) Ping(ctx context.Context) bool {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()
	if client == nil {
		return false
	}

	pingCtx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()
	return client.Ping(pingCtx, readpref.Primary()) == nil
}

// Ensure re-dials once when the connection is missing or stale.
func (c *Conn) Ensure(ctx context.Context) error {
	if c.Ping(ctx) {
		return nil
	}
	return c.dial(ctx)
}

// Collection returns the configured task collection, nil while
// disconnected.
func (c *Conn) Collection() *mongo.Collection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.client == nil {
		return nil
	}
	return c.client.Database(c.cfg.Database).Collection(c.cfg.Collection)
}

// Close disconnects the client and logs the result. Safe to call
// repeatedly.
func (c *Conn) Close(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.mu.Unlock()
	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		return err
	}
	c.logger.Info("mongodb connection closed")
	return nil
}
