package repositories_mongo

import (
	"context"

	"github.com/agentfleet/watcher/internal/domain/entities"
	"github.com/agentfleet/watcher/internal/domain/errs"
	"github.com/agentfleet/watcher/internal/domain/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(collection *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{
		collection: collection,
	}
}

func (r *MongoUserRepository) ListUsers(ctx context.Context) ([]*entities.User, error) {
	var users []*entities.User
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, errs.InternalErrorf("failed to list users: %v", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var user entities.User
		if err := cursor.Decode(&user); err != nil {
			return nil, errs.InternalErrorf("failed to decode user: %v", err)
		}
		users = append(users, &user)
	}

	if err := cursor.Err(); err != nil {
		return nil, errs.InternalErrorf("failed to list users: %v", err)
	}

	return users, nil
}

var _ interfaces.UserRepository = (*MongoUserRepository)(nil)
