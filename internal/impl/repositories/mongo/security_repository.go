package repositories_mongo

import (
	"context"

	"github.com/agentfleet/watcher/internal/domain/entities"
	"github.com/agentfleet/watcher/internal/domain/errs"
	"github.com/agentfleet/watcher/internal/domain/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoSecurityRepository assembles the tenant -> agent -> skill hierarchy
// from the profiles and assignments collections. The assignments
// collection stores one document per agent with its skill assignments
// embedded; an empty profile_id at any level means inherited.
type MongoSecurityRepository struct {
	profiles    *mongo.Collection
	assignments *mongo.Collection
}

func NewMongoSecurityRepository(profiles, assignments *mongo.Collection) *MongoSecurityRepository {
	return &MongoSecurityRepository{
		profiles:    profiles,
		assignments: assignments,
	}
}

func (r *MongoSecurityRepository) GetSecurityHierarchy(ctx context.Context) (*entities.SecurityHierarchy, error) {
	var tenant entities.SecurityProfile
	err := r.profiles.FindOne(ctx, bson.M{"is_tenant_default": true}).Decode(&tenant)
	if err == mongo.ErrNoDocuments {
		return nil, errs.NotFoundErrorf("tenant security profile not found")
	}
	if err != nil {
		return nil, errs.InternalErrorf("failed to get tenant profile: %v", err)
	}

	cursor, err := r.assignments.Find(ctx, bson.M{})
	if err != nil {
		return nil, errs.InternalErrorf("failed to list security assignments: %v", err)
	}
	defer cursor.Close(ctx)

	hierarchy := &entities.SecurityHierarchy{TenantProfile: &tenant}
	for cursor.Next(ctx) {
		var entry entities.AgentSecurityEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, errs.InternalErrorf("failed to decode security assignment: %v", err)
		}
		hierarchy.Agents = append(hierarchy.Agents, entry)
	}

	if err := cursor.Err(); err != nil {
		return nil, errs.InternalErrorf("failed to list security assignments: %v", err)
	}

	return hierarchy, nil
}

var _ interfaces.SecurityRepository = (*MongoSecurityRepository)(nil)
