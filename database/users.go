package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"clipstream/models"
)

// UserStore implements feed.UserStore and the account/social-graph writes.
type UserStore struct {
	users *mongo.Collection
}

func NewUserStore(db *DB) *UserStore {
	return &UserStore{users: db.collection("users")}
}

// Profile returns the user's document, or (nil, nil) when the user no longer
// exists. Feed projection treats a missing owner as empty profile fields.
func (s *UserStore) Profile(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) Insert(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Followings == nil {
		user.Followings = []primitive.ObjectID{}
	}
	_, err := s.users.InsertOne(ctx, user)
	return err
}

func (s *UserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleFollow flips the follow edge between follower and target, keeping the
// followers/followings arrays on both documents in step. Each side is a
// conditional set update, so repeated or concurrent calls cannot duplicate
// the edge.
func (s *UserStore) ToggleFollow(ctx context.Context, followerID, targetID primitive.ObjectID) (bool, error) {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": targetID, "followers": bson.M{"$ne": followerID}},
		bson.M{"$addToSet": bson.M{"followers": followerID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		_, err = s.users.UpdateOne(ctx,
			bson.M{"_id": followerID},
			bson.M{"$addToSet": bson.M{"followings": targetID}})
		return true, err
	}

	res, err = s.users.UpdateOne(ctx,
		bson.M{"_id": targetID, "followers": followerID},
		bson.M{"$pull": bson.M{"followers": followerID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		_, err = s.users.UpdateOne(ctx,
			bson.M{"_id": followerID},
			bson.M{"$pull": bson.M{"followings": targetID}})
		return false, err
	}
	return false, ErrNotFound
}
