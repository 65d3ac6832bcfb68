package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"clipstream/database"
)

// GetUser returns another user's public profile, with follow state relative
// to the viewer.
func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID."})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	user, err := h.users.Profile(ctx, targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong."})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	isFollowed := false
	for _, id := range user.Followers {
		if id == userID {
			isFollowed = true
			break
		}
	}

	profile := profileResponse(user)
	profile["isFollowed"] = isFollowed
	delete(profile, "email")

	c.JSON(http.StatusOK, gin.H{
		"message": "User profile retrieved successfully",
		"profile": profile,
	})
}

// FollowUser toggles the viewer's follow on another user.
func (h *Handler) FollowUser(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID."})
		return
	}
	if targetID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "You cannot follow yourself"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	followed, err := h.users.ToggleFollow(ctx, userID, targetID)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong."})
		return
	}

	if followed {
		c.JSON(http.StatusOK, gin.H{"message": "User followed successfully", "isFollowed": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User unfollowed successfully", "isFollowed": false})
}
