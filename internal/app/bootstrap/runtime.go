package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	appconfig "github.com/wolfman30/contact-crm/internal/config"
	"github.com/wolfman30/contact-crm/pkg/logging"
)

// ErrNoMongoURL is returned when the config carries no connection string.
var ErrNoMongoURL = errors.New("bootstrap: mongo url not configured")

// BuildMongoClient connects to MongoDB and, when verify is true, pings the
// primary within the configured connect timeout.
func BuildMongoClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) (*mongo.Client, error) {
	if cfg == nil || strings.TrimSpace(cfg.MongoURL) == "" {
		return nil, ErrNoMongoURL
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	timeout := cfg.MongoConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	opts := options.Client().
		ApplyURI(cfg.MongoURL).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetAppName("contact-crm")

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: mongo connect: %w", err)
	}
	if !verify {
		return client, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("bootstrap: mongo ping: %w", err)
	}
	logger.Info("connected to mongodb", "database", cfg.DBName)
	return client, nil
}

// Collections resolves the contacts and credentials collections.
func Collections(client *mongo.Client, cfg *appconfig.Config) (contacts, credentials *mongo.Collection) {
	db := client.Database(cfg.DBName)
	return db.Collection(cfg.ContactsCollection), db.Collection(cfg.CredentialsCollection)
}
