package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clipstream/feed"
	"clipstream/models"
)

// PostStore implements feed.PostStore plus the write paths on the posts
// collection. Engagement toggles are issued as conditional atomic updates so
// concurrent toggles cannot lose each other's writes.
type PostStore struct {
	posts *mongo.Collection
}

func NewPostStore(db *DB) *PostStore {
	return &PostStore{posts: db.collection("posts")}
}

func queryFilter(q feed.PostQuery) bson.M {
	filter := bson.M{}
	switch {
	case q.Owner != nil:
		filter["owner_id"] = *q.Owner
	case len(q.Owners) > 0:
		filter["owner_id"] = bson.M{"$in": q.Owners}
	case q.LikedBy != nil:
		filter["likes"] = *q.LikedBy
	case q.SavedBy != nil:
		filter["saves"] = *q.SavedBy
	}
	if len(q.Exclude) > 0 {
		filter["_id"] = bson.M{"$nin": q.Exclude}
	}
	return filter
}

func (s *PostStore) Count(ctx context.Context, q feed.PostQuery) (int64, error) {
	return s.posts.CountDocuments(ctx, queryFilter(q))
}

func (s *PostStore) List(ctx context.Context, q feed.PostQuery, skip, limit int64) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.posts.Find(ctx, queryFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

func (s *PostStore) Trending(ctx context.Context, exclude []primitive.ObjectID, skip, limit int64) ([]models.Post, error) {
	if exclude == nil {
		exclude = []primitive.ObjectID{}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$nin": exclude}}}},
		{{Key: "$addFields", Value: bson.M{
			"likesCount":    bson.M{"$size": bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}},
			"sharesCount":   bson.M{"$size": bson.M{"$ifNull": bson.A{"$shares", bson.A{}}}},
			"commentsCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$comments", bson.A{}}}},
			"savesCount":    bson.M{"$size": bson.M{"$ifNull": bson.A{"$saves", bson.A{}}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "likesCount", Value: -1},
			{Key: "sharesCount", Value: -1},
			{Key: "commentsCount", Value: -1},
			{Key: "savesCount", Value: -1},
			{Key: "createdAt", Value: -1},
		}}},
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{
			"likesCount": 0, "sharesCount": 0, "commentsCount": 0, "savesCount": 0,
		}}},
	}

	cursor, err := s.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("trending aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode trending posts: %w", err)
	}
	return posts, nil
}

func (s *PostStore) Sample(ctx context.Context, exclude []primitive.ObjectID, size int64) ([]models.Post, error) {
	if size <= 0 {
		return nil, nil
	}
	if exclude == nil {
		exclude = []primitive.ObjectID{}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$nin": exclude}}}},
		{{Key: "$sample", Value: bson.M{"size": size}}},
	}

	cursor, err := s.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("sample aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode sampled posts: %w", err)
	}
	return posts, nil
}

func (s *PostStore) Insert(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Shares == nil {
		post.Shares = []primitive.ObjectID{}
	}
	if post.Saves == nil {
		post.Saves = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []primitive.ObjectID{}
	}

	_, err := s.posts.InsertOne(ctx, post)
	return err
}

func (s *PostStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := s.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ToggleLike flips the viewer's membership in the post's likes set and
// reports the resulting state. Each branch is a single conditional update.
func (s *PostStore) ToggleLike(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	return s.toggleMembership(ctx, postID, userID, "likes")
}

// ToggleSave flips the viewer's membership in the post's saves set.
func (s *PostStore) ToggleSave(ctx context.Context, postID, userID primitive.ObjectID) (bool, error) {
	return s.toggleMembership(ctx, postID, userID, "saves")
}

func (s *PostStore) toggleMembership(ctx context.Context, postID, userID primitive.ObjectID, field string) (bool, error) {
	res, err := s.posts.UpdateOne(ctx,
		bson.M{"_id": postID, field: bson.M{"$ne": userID}},
		bson.M{
			"$addToSet": bson.M{field: userID},
			"$set":      bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		return true, nil
	}

	res, err = s.posts.UpdateOne(ctx,
		bson.M{"_id": postID, field: userID},
		bson.M{
			"$pull": bson.M{field: userID},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		return false, nil
	}
	return false, ErrNotFound
}

// AddShare appends one share event. Shares are an action log, not a set:
// sharing twice counts twice.
func (s *PostStore) AddShare(ctx context.Context, postID, userID primitive.ObjectID) error {
	res, err := s.posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{
			"$push": bson.M{"shares": userID},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AttachComment appends a top-level comment reference to the post.
func (s *PostStore) AttachComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	res, err := s.posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{
			"$push": bson.M{"comments": commentID},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
