package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoDB holds the client and database handle, giving repositories a
// single place to get collection handles from.
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewMongoDB connects to the given URI and pings the server to verify the
// connection before returning.
func NewMongoDB(uri string, dbName string, logger *zap.Logger) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", zap.Error(err), zap.String("uri", uri))
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		logger.Error("Failed to ping MongoDB", zap.Error(err), zap.String("uri", uri))
		return nil, err
	}

	logger.Info("Successfully connected to MongoDB", zap.String("database", dbName))
	return &MongoDB{
		client:   client,
		database: client.Database(dbName),
	}, nil
}

// Collection returns a handle to the named collection.
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.database.Collection(name)
}

// Disconnect closes the underlying client. Call during shutdown.
func (m *MongoDB) Disconnect(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
