package repositories_mongo

import (
	"context"

	"github.com/agentfleet/watcher/internal/domain/entities"
	"github.com/agentfleet/watcher/internal/domain/errs"
	"github.com/agentfleet/watcher/internal/domain/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoAgentRepository struct {
	collection *mongo.Collection
}

func NewMongoAgentRepository(collection *mongo.Collection) *MongoAgentRepository {
	return &MongoAgentRepository{
		collection: collection,
	}
}

func (r *MongoAgentRepository) ListAgents(ctx context.Context) ([]*entities.Agent, error) {
	var agents []*entities.Agent
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, errs.InternalErrorf("failed to list agents: %v", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var agent entities.Agent
		if err := cursor.Decode(&agent); err != nil {
			return nil, errs.InternalErrorf("failed to decode agent: %v", err)
		}
		agents = append(agents, &agent)
	}

	if err := cursor.Err(); err != nil {
		return nil, errs.InternalErrorf("failed to list agents: %v", err)
	}

	return agents, nil
}

var _ interfaces.AgentRepository = (*MongoAgentRepository)(nil)
