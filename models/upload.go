package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UploadStatusQueued     = "queued"
	UploadStatusProcessing = "processing"
	UploadStatusDone       = "done"
	UploadStatusFailed     = "failed"
)

// Upload tracks one video through the transcoding worker. The API server
// writes the queued record; the worker owns every later status transition.
type Upload struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"owner_id" json:"ownerId"`
	Filename  string             `bson:"filename" json:"filename"`
	Status    string             `bson:"status" json:"status"`
	URL       string             `bson:"url" json:"url"`
	Thumbnail string             `bson:"thumbnail" json:"thumbnail"`
	Error     string             `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
