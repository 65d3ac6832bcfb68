package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment belongs to exactly one post. Replies form a two-level tree: a reply
// is itself a Comment referenced from its parent's Replies, never nested deeper.
type Comment struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	PostID    primitive.ObjectID   `bson:"post_id" json:"postId"`
	OwnerID   primitive.ObjectID   `bson:"owner_id" json:"ownerId"`
	Text      string               `bson:"text" json:"text"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Replies   []primitive.ObjectID `bson:"replies" json:"replies"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}
