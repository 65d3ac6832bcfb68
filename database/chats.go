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

type ChatStore struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

func NewChatStore(db *DB) *ChatStore {
	return &ChatStore{
		conversations: db.collection("conversations"),
		messages:      db.collection("messages"),
	}
}

func (s *ChatStore) Conversations(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "lastMessageTimestamp", Value: -1}})
	cursor, err := s.conversations.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// SendMessage stores the message and upserts the pair's conversation with
// the new last-message pointer.
func (s *ChatStore) SendMessage(ctx context.Context, senderID, receiverID primitive.ObjectID, content string) (*models.Message, error) {
	msg := models.Message{
		ID:        primitive.NewObjectID(),
		Sender:    senderID,
		Receiver:  receiverID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if _, err := s.messages.InsertOne(ctx, msg); err != nil {
		return nil, err
	}

	_, err := s.conversations.UpdateOne(ctx,
		bson.M{"participants": bson.M{"$all": bson.A{senderID, receiverID}}},
		bson.M{
			"$set": bson.M{
				"lastMessage":          msg.ID,
				"lastMessageTimestamp": msg.CreatedAt,
			},
			"$setOnInsert": bson.M{
				"participants": bson.A{senderID, receiverID},
			},
		},
		options.Update().SetUpsert(true))
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// MessagesBetween returns the latest messages between the two users, newest
// first, and marks the other side's unread messages as read.
func (s *ChatStore) MessagesBetween(ctx context.Context, userID, otherID primitive.ObjectID, limit int64) ([]models.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": userID, "receiver": otherID},
		bson.M{"sender": otherID, "receiver": userID},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	_, err = s.messages.UpdateMany(ctx,
		bson.M{"sender": otherID, "receiver": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return nil, err
	}
	return messages, nil
}
