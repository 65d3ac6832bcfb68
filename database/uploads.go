package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"clipstream/models"
)

type UploadStore struct {
	uploads *mongo.Collection
}

func NewUploadStore(db *DB) *UploadStore {
	return &UploadStore{uploads: db.collection("uploads")}
}

func (s *UploadStore) Insert(ctx context.Context, u *models.Upload) error {
	u.ID = primitive.NewObjectID()
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	u.Status = models.UploadStatusQueued
	_, err := s.uploads.InsertOne(ctx, u)
	return err
}

func (s *UploadStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Upload, error) {
	var upload models.Upload
	err := s.uploads.FindOne(ctx, bson.M{"_id": id}).Decode(&upload)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func (s *UploadStore) SetProcessing(ctx context.Context, id primitive.ObjectID) error {
	return s.update(ctx, id, bson.M{"status": models.UploadStatusProcessing})
}

func (s *UploadStore) SetResult(ctx context.Context, id primitive.ObjectID, url, thumbnail string) error {
	return s.update(ctx, id, bson.M{
		"status":    models.UploadStatusDone,
		"url":       url,
		"thumbnail": thumbnail,
	})
}

func (s *UploadStore) SetFailed(ctx context.Context, id primitive.ObjectID, reason string) error {
	return s.update(ctx, id, bson.M{
		"status": models.UploadStatusFailed,
		"error":  reason,
	})
}

func (s *UploadStore) update(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	res, err := s.uploads.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
