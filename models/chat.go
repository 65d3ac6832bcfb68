package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Conversation struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Participants         []primitive.ObjectID `bson:"participants" json:"participants"`
	LastMessage          primitive.ObjectID   `bson:"lastMessage,omitempty" json:"lastMessage"`
	LastMessageTimestamp time.Time            `bson:"lastMessageTimestamp" json:"lastMessageTimestamp"`
}

type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Sender    primitive.ObjectID `bson:"sender" json:"sender"`
	Receiver  primitive.ObjectID `bson:"receiver" json:"receiver"`
	Content   string             `bson:"content" json:"content"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
