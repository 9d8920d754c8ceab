package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/zhouzirui/startup-chat/backend/internal/config"
)

// ConversationsCollection holds one document per conversation.
const ConversationsCollection = "conversations"

// ErrConnection is returned when the initial connection or ping fails.
var ErrConnection = errors.New("database connection failed")

// DB owns the Mongo client for the life of the process.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens the client, verifies it with a ping and selects the configured database.
// It does not retry.
func Connect(ctx context.Context, cfg config.MongoConfig) (*DB, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: MONGODB_URI is empty", ErrConnection)
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	log.Printf("[database] connected to MongoDB database=%s", cfg.Database)
	return &DB{client: client, db: client.Database(cfg.Database)}, nil
}

// Database returns the selected logical database.
func (d *DB) Database() *mongo.Database {
	return d.db
}

// Conversations returns the conversation collection.
func (d *DB) Conversations() *mongo.Collection {
	return d.db.Collection(ConversationsCollection)
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	if d == nil || d.client == nil {
		return nil
	}
	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	log.Println("[database] disconnected from MongoDB")
	return nil
}
