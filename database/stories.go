package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clipstream/models"
)

const storyLifetime = 24 * time.Hour

type StoryStore struct {
	stories *mongo.Collection
}

func NewStoryStore(db *DB) *StoryStore {
	return &StoryStore{stories: db.collection("stories")}
}

func (s *StoryStore) Insert(ctx context.Context, story *models.Story) error {
	story.ID = primitive.NewObjectID()
	story.CreatedAt = time.Now()
	story.ExpiresAt = story.CreatedAt.Add(storyLifetime)
	_, err := s.stories.InsertOne(ctx, story)
	return err
}

// ActiveByOwners returns unexpired stories from any of the given owners,
// newest first. The TTL index removes expired documents lazily, so the
// expiry filter is applied here as well.
func (s *StoryStore) ActiveByOwners(ctx context.Context, owners []primitive.ObjectID) ([]models.Story, error) {
	if len(owners) == 0 {
		return []models.Story{}, nil
	}

	filter := bson.M{
		"owner_id":  bson.M{"$in": owners},
		"expiresAt": bson.M{"$gt": time.Now()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.stories.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stories []models.Story
	if err := cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

func (s *StoryStore) ActiveByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Story, error) {
	return s.ActiveByOwners(ctx, []primitive.ObjectID{owner})
}
