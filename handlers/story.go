package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"clipstream/models"
)

type AddStoryRequest struct {
	Text      string `json:"text"`
	Media     string `json:"media"`
	MediaType string `json:"mediaType"`
}

func (h *Handler) AddStory(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}

	var req AddStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.Media == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Story media is required"})
		return
	}
	if req.MediaType != "image" && req.MediaType != "video" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Media type must be image or video"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	story := models.Story{
		OwnerID:   userID,
		Text:      req.Text,
		Media:     req.Media,
		MediaType: req.MediaType,
	}
	if err := h.stories.Insert(ctx, &story); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Story added successfully", "story": story})
}

// GetStories returns the viewer's own active stories plus those of everyone
// they follow, grouped per owner.
func (h *Handler) GetStories(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	viewer, err := h.users.Profile(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	if viewer == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	myStories, err := h.stories.ActiveByOwner(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	others, err := h.stories.ActiveByOwners(ctx, viewer.Followings)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	grouped := make(map[primitive.ObjectID][]models.Story)
	var order []primitive.ObjectID
	for _, story := range others {
		if _, seen := grouped[story.OwnerID]; !seen {
			order = append(order, story.OwnerID)
		}
		grouped[story.OwnerID] = append(grouped[story.OwnerID], story)
	}

	otherStories := make([]gin.H, 0, len(order))
	for _, ownerID := range order {
		owner := gin.H{"id": ownerID.Hex()}
		if profile, err := h.users.Profile(ctx, ownerID); err == nil && profile != nil {
			owner["name"] = profile.Name
			owner["picture"] = profile.Picture
		}
		otherStories = append(otherStories, gin.H{
			"owner":   owner,
			"stories": grouped[ownerID],
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Stories fetched successfully",
		"myStories":    myStories,
		"otherStories": otherStories,
	})
}

func (h *Handler) GetStoriesByOwner(c *gin.Context) {
	if _, ok := viewerID(c); !ok {
		return
	}

	ownerID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID."})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	stories, err := h.stories.ActiveByOwner(ctx, ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stories fetched successfully", "stories": stories})
}
