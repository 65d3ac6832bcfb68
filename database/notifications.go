package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clipstream/models"
)

type NotificationStore struct {
	notifications *mongo.Collection
	subscriptions *mongo.Collection
}

func NewNotificationStore(db *DB) *NotificationStore {
	return &NotificationStore{
		notifications: db.collection("notifications"),
		subscriptions: db.collection("subscriptions"),
	}
}

func (s *NotificationStore) Insert(ctx context.Context, n *models.Notification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	_, err := s.notifications.InsertOne(ctx, n)
	return err
}

func (s *NotificationStore) ListForReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.notifications.Find(ctx, bson.M{"receiverId": receiverID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *NotificationStore) UpsertSubscription(ctx context.Context, sub *models.PushSubscription) error {
	_, err := s.subscriptions.UpdateOne(ctx,
		bson.M{"userId": sub.UserID},
		bson.M{"$set": bson.M{"userId": sub.UserID, "sub": sub.Sub}},
		options.Update().SetUpsert(true))
	return err
}

func (s *NotificationStore) Subscription(ctx context.Context, userID primitive.ObjectID) (*models.PushSubscription, error) {
	var sub models.PushSubscription
	err := s.subscriptions.FindOne(ctx, bson.M{"userId": userID}).Decode(&sub)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *NotificationStore) DeleteSubscription(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.subscriptions.DeleteOne(ctx, bson.M{"userId": userID})
	return err
}
