package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a single video unit. likes and saves are membership sets (a user
// appears at most once); shares is append-only, one entry per share action.
type Post struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	OwnerID     primitive.ObjectID   `bson:"owner_id" json:"ownerId"`
	Video       string               `bson:"video" json:"video"`
	Thumbnail   string               `bson:"thumbnail" json:"thumbnail"`
	Description string               `bson:"description" json:"description"`
	Tags        []string             `bson:"tags" json:"tags"`
	Location    Location             `bson:"location" json:"location"`
	Likes       []primitive.ObjectID `bson:"likes" json:"likes"`
	Shares      []primitive.ObjectID `bson:"shares" json:"shares"`
	Saves       []primitive.ObjectID `bson:"saves" json:"saves"`
	Comments    []primitive.ObjectID `bson:"comments" json:"comments"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

type Location struct {
	Description string  `bson:"locationString" json:"locationString"`
	Lat         float64 `bson:"lat" json:"lat"`
	Lng         float64 `bson:"lng" json:"lng"`
}
