package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username    string               `bson:"username" json:"username"`
	Email       string               `bson:"email" json:"email"`
	Password    string               `bson:"password" json:"-"`
	Name        string               `bson:"name" json:"name"`
	Picture     string               `bson:"picture" json:"picture"`
	CoverPhoto  string               `bson:"coverPhoto" json:"coverPhoto"`
	Description string               `bson:"description" json:"description"`
	FCMToken    string               `bson:"fcmToken" json:"fcmToken"`
	Followers   []primitive.ObjectID `bson:"followers" json:"followers"`
	Followings  []primitive.ObjectID `bson:"followings" json:"followings"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}
