package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const messageHistoryLimit = 50

func (h *Handler) GetConversations(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	conversations, err := h.chats.Conversations(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Conversations fetched successfully",
		"conversations": conversations,
	})
}

func (h *Handler) GetMessages(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}

	otherID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID."})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	messages, err := h.chats.MessagesBetween(ctx, userID, otherID, messageHistoryLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Messages fetched successfully",
		"messages": messages,
	})
}

type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
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

	msg, err := h.chats.SendMessage(ctx, userID, receiverID, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	if h.ws != nil {
		h.ws.SendToUser(receiverID.Hex(), "new_message", msg)
	}
	h.pushToUser(ctx, receiverID, "New message", req.Content)

	c.JSON(http.StatusCreated, gin.H{"message": "Message sent successfully", "data": msg})
}
