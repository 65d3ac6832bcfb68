package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Story expires 24 hours after creation; a TTL index on expiresAt removes it.
type Story struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   primitive.ObjectID `bson:"owner_id" json:"ownerId"`
	Text      string             `bson:"text" json:"text"`
	Media     string             `bson:"media" json:"media"`
	MediaType string             `bson:"mediaType" json:"mediaType"` // image or video
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
}
