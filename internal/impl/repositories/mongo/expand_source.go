package repositories_mongo

import (
	"context"

	"github.com/agentfleet/watcher/internal/domain/entities"
	"github.com/agentfleet/watcher/internal/domain/errs"
	"github.com/agentfleet/watcher/internal/domain/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoExpandSource serves the agent expand-data bundle from the skills
// and knowledge collections. The knowledge collection holds one summary
// document per agent; a missing document means no knowledge base.
type MongoExpandSource struct {
	skills    *mongo.Collection
	knowledge *mongo.Collection
}

func NewMongoExpandSource(skills, knowledge *mongo.Collection) *MongoExpandSource {
	return &MongoExpandSource{
		skills:    skills,
		knowledge: knowledge,
	}
}

func (r *MongoExpandSource) FetchAgentExpandData(ctx context.Context, agentID string) (*entities.AgentExpandData, error) {
	cursor, err := r.skills.Find(ctx, bson.M{"agent_id": agentID})
	if err != nil {
		return nil, errs.InternalErrorf("failed to list skills for agent %s: %v", agentID, err)
	}
	defer cursor.Close(ctx)

	data := &entities.AgentExpandData{}
	for cursor.Next(ctx) {
		var skill entities.Skill
		if err := cursor.Decode(&skill); err != nil {
			return nil, errs.InternalErrorf("failed to decode skill: %v", err)
		}
		data.Skills = append(data.Skills, &skill)
	}
	if err := cursor.Err(); err != nil {
		return nil, errs.InternalErrorf("failed to list skills for agent %s: %v", agentID, err)
	}

	var summary entities.KnowledgeSummary
	err = r.knowledge.FindOne(ctx, bson.M{"agent_id": agentID}).Decode(&summary)
	if err == nil {
		data.KnowledgeSummary = &summary
	} else if err != mongo.ErrNoDocuments {
		return nil, errs.InternalErrorf("failed to get knowledge summary for agent %s: %v", agentID, err)
	}

	return data, nil
}

var _ interfaces.ExpandDataSource = (*MongoExpandSource)(nil)
