package repositories_mongo

import (
	"context"

	"github.com/agentfleet/watcher/internal/domain/entities"
	"github.com/agentfleet/watcher/internal/domain/errs"
	"github.com/agentfleet/watcher/internal/domain/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoChannelRepository struct {
	collection *mongo.Collection
}

func NewMongoChannelRepository(collection *mongo.Collection) *MongoChannelRepository {
	return &MongoChannelRepository{
		collection: collection,
	}
}

func (r *MongoChannelRepository) ListChannelInstances(ctx context.Context) (entities.ChannelSet, error) {
	var set entities.ChannelSet
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return set, errs.InternalErrorf("failed to list channels: %v", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var ch entities.ChannelInstance
		if err := cursor.Decode(&ch); err != nil {
			return set, errs.InternalErrorf("failed to decode channel: %v", err)
		}
		switch ch.Transport {
		case "whatsapp":
			set.WhatsApp = append(set.WhatsApp, &ch)
		case "telegram":
			set.Telegram = append(set.Telegram, &ch)
		}
	}

	if err := cursor.Err(); err != nil {
		return set, errs.InternalErrorf("failed to list channels: %v", err)
	}

	return set, nil
}

var _ interfaces.ChannelRepository = (*MongoChannelRepository)(nil)
