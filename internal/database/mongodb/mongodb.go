// Package mongodb implements the storage contracts over a MongoDB
// connection. Collection names mirror the entities: tools, users, urls,
// analytics_events.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wangfeiwest163/toolshub/internal/database"
)

const defaultConnectTimeout = 5 * time.Second

type settings struct {
	connectTimeout time.Duration
}

type Option func(*settings)

// WithConnectTimeout bounds the initial connect and ping.
func WithConnectTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.connectTimeout = d
	}
}

// New connects to the database at uri and returns a store over it. The
// connection is verified with a ping before any repository is handed out.
func New(ctx context.Context, uri, dbName string, opts ...Option) (*database.Store, error) {
	const op = "database.mongodb.New"

	s := settings{connectTimeout: defaultConnectTimeout}
	for _, opt := range opts {
		opt(&s)
	}

	ctx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(s.connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	db := client.Database(dbName)

	return database.NewStore(
		newToolRepository(db.Collection("tools")),
		newURLRepository(db.Collection("urls")),
		newUserRepository(db.Collection("users")),
		newEventRepository(db.Collection("analytics_events")),
		false,
		client.Disconnect,
	), nil
}

// parseID interprets id as an ObjectID hex string. Malformed identifiers
// are a distinct condition from not-found.
func parseID(op, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%s: %w", op, database.ErrInvalidID)
	}
	return oid, nil
}
