package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"clipstream/database"
	"clipstream/models"
)

type SendNotificationRequest struct {
	ReceiverID string      `json:"receiverId" binding:"required"`
	Title      string      `json:"title" binding:"required"`
	Body       string      `json:"body" binding:"required"`
	Details    interface{} `json:"details"`
}

func (h *Handler) SendNotification(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}

	var req SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	receiverID, err := primitive.ObjectIDFromHex(req.ReceiverID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID."})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	receiver, err := h.users.Profile(ctx, receiverID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	if receiver == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	notification := models.Notification{
		Title:      req.Title,
		Body:       req.Body,
		SenderID:   userID,
		ReceiverID: receiverID,
		Details:    req.Details,
	}
	if err := h.notifications.Insert(ctx, &notification); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	h.pushToUser(ctx, receiverID, req.Title, req.Body)

	c.JSON(http.StatusCreated, gin.H{"message": "Notification sent successfully"})
}

func (h *Handler) GetNotifications(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	notifications, err := h.notifications.ListForReceiver(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	views := make([]gin.H, 0, len(notifications))
	for _, n := range notifications {
		sender := gin.H{"id": n.SenderID.Hex()}
		if profile, err := h.users.Profile(ctx, n.SenderID); err == nil && profile != nil {
			sender["name"] = profile.Name
			sender["picture"] = profile.Picture
		}
		views = append(views, gin.H{
			"id":        n.ID.Hex(),
			"title":     n.Title,
			"body":      n.Body,
			"sender":    sender,
			"details":   n.Details,
			"createdAt": n.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Notifications fetched successfully",
		"notifications": views,
	})
}

func (h *Handler) SubscribePush(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}

	var sub webpush.Subscription
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if sub.Endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Subscription endpoint is required"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	err := h.notifications.UpsertSubscription(ctx, &models.PushSubscription{
		UserID: userID,
		Sub:    sub,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Subscribed to push notifications"})
}

func (h *Handler) GetVapidPublicKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publicKey": h.cfg.VAPIDPublicKey})
}

// pushToUser delivers a web push to the user's stored subscription. Push is
// best effort; a missing subscription or a send failure never fails the
// triggering request. A 410 from the push service means the subscription is
// gone and is dropped.
func (h *Handler) pushToUser(ctx context.Context, userID primitive.ObjectID, title, body string) {
	if h.cfg.VAPIDPrivateKey == "" {
		return
	}

	sub, err := h.notifications.Subscription(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return
	}
	if err != nil {
		log.Printf("Failed to load push subscription: %v", err)
		return
	}

	payload, err := json.Marshal(gin.H{"title": title, "body": body})
	if err != nil {
		return
	}

	resp, err := webpush.SendNotification(payload, &sub.Sub, &webpush.Options{
		Subscriber:      h.cfg.VAPIDSubscriber,
		VAPIDPublicKey:  h.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: h.cfg.VAPIDPrivateKey,
		TTL:             60,
	})
	if err != nil {
		log.Printf("Failed to send push notification: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		if err := h.notifications.DeleteSubscription(ctx, userID); err != nil {
			log.Printf("Failed to drop stale push subscription: %v", err)
		}
	}
}
