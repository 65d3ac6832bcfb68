package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clipstream/models"
)

// ErrCommentMismatch is returned when a reply targets a parent comment that
// belongs to a different post.
var ErrCommentMismatch = errors.New("parent comment does not belong to this post")

type CommentStore struct {
	comments *mongo.Collection
}

func NewCommentStore(db *DB) *CommentStore {
	return &CommentStore{comments: db.collection("comments")}
}

func (s *CommentStore) Insert(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	if comment.Likes == nil {
		comment.Likes = []primitive.ObjectID{}
	}
	if comment.Replies == nil {
		comment.Replies = []primitive.ObjectID{}
	}
	_, err := s.comments.InsertOne(ctx, comment)
	return err
}

func (s *CommentStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	err := s.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// AttachReply appends replyID to the parent's replies, but only when the
// parent actually belongs to postID. The association check is part of the
// update filter, so a mismatched reply can never be attached.
func (s *CommentStore) AttachReply(ctx context.Context, parentID, postID, replyID primitive.ObjectID) error {
	res, err := s.comments.UpdateOne(ctx,
		bson.M{"_id": parentID, "post_id": postID},
		bson.M{"$push": bson.M{"replies": replyID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}

	// Distinguish a missing parent from one on the wrong post.
	count, err := s.comments.CountDocuments(ctx, bson.M{"_id": parentID})
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrCommentMismatch
}

// ListByIDs pages through the given comment ids newest first. It backs both
// the top-level listing (ids from the post's comments array) and the reply
// listing (ids from a parent's replies array).
func (s *CommentStore) ListByIDs(ctx context.Context, ids []primitive.ObjectID, skip, limit int64) ([]models.Comment, error) {
	if len(ids) == 0 {
		return []models.Comment{}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := s.comments.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// ToggleLike flips the viewer's membership in the comment's likes set.
func (s *CommentStore) ToggleLike(ctx context.Context, commentID, userID primitive.ObjectID) (bool, error) {
	res, err := s.comments.UpdateOne(ctx,
		bson.M{"_id": commentID, "likes": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"likes": userID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		return true, nil
	}

	res, err = s.comments.UpdateOne(ctx,
		bson.M{"_id": commentID, "likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		return false, nil
	}
	return false, ErrNotFound
}
