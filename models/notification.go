package models

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Body       string             `bson:"body" json:"body"`
	SenderID   primitive.ObjectID `bson:"senderId" json:"-"`
	ReceiverID primitive.ObjectID `bson:"receiverId" json:"-"`
	Details    interface{}        `bson:"details,omitempty" json:"details"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

type PushSubscription struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty"`
	UserID primitive.ObjectID   `bson:"userId"`
	Sub    webpush.Subscription `bson:"sub"`
}
