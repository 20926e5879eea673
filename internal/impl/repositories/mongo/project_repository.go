package repositories_mongo

import (
	"context"

	"github.com/agentfleet/watcher/internal/domain/entities"
	"github.com/agentfleet/watcher/internal/domain/errs"
	"github.com/agentfleet/watcher/internal/domain/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoProjectRepository struct {
	collection *mongo.Collection
}

func NewMongoProjectRepository(collection *mongo.Collection) *MongoProjectRepository {
	return &MongoProjectRepository{
		collection: collection,
	}
}

func (r *MongoProjectRepository) ListProjects(ctx context.Context) ([]*entities.Project, error) {
	var projects []*entities.Project
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, errs.InternalErrorf("failed to list projects: %v", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var project entities.Project
		if err := cursor.Decode(&project); err != nil {
			return nil, errs.InternalErrorf("failed to decode project: %v", err)
		}
		projects = append(projects, &project)
	}

	if err := cursor.Err(); err != nil {
		return nil, errs.InternalErrorf("failed to list projects: %v", err)
	}

	return projects, nil
}

var _ interfaces.ProjectRepository = (*MongoProjectRepository)(nil)
