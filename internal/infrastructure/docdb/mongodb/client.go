// Package mongodb provides the MongoDB archive implementation.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/unifiedui/price-chat/internal/core/docdb"
)

// Client implements the docdb.Client interface for MongoDB.
type Client struct {
	client   *mongo.Client
	messages *MessagesCollection
}

var _ docdb.Client = (*Client)(nil)

// ClientConfig holds MongoDB connection configuration.
type ClientConfig struct {
	URI          string
	DatabaseName string
}

// NewClient connects to MongoDB and verifies the connection.
func NewClient(ctx context.Context, config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.URI == "" {
		return nil, fmt.Errorf("mongodb URI is required")
	}
	if config.DatabaseName == "" {
		return nil, fmt.Errorf("database name is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Client{
		client:   client,
		messages: NewMessagesCollection(client.Database(config.DatabaseName)),
	}, nil
}

// Messages returns the message archive.
func (c *Client) Messages() docdb.MessagesCollection {
	return c.messages
}

// Ping verifies the connection to MongoDB.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}

// EnsureIndexes creates all necessary indexes.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	if err := c.messages.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to ensure messages indexes: %w", err)
	}
	return nil
}
