package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"clipstream/models"
)

type CreatePostRequest struct {
	Video       string   `json:"video"`
	Thumbnail   string   `json:"thumbnail"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Location    struct {
		Description string      `json:"locationString"`
		Lat         interface{} `json:"lat"`
		Lng         interface{} `json:"lng"`
	} `json:"location"`
}

// validate collects every problem at once so the client can fix the whole
// form in one round trip.
func (r *CreatePostRequest) validate() []string {
	var errs []string
	if r.Video == "" {
		errs = append(errs, "Video URL is required")
	}
	if len(r.Tags) == 0 {
		errs = append(errs, "At least one tag is required")
	}
	if r.Location.Description == "" {
		errs = append(errs, "Location description is required")
	}
	if _, ok := asFloat(r.Location.Lat); !ok {
		errs = append(errs, "Location latitude must be a number")
	}
	if _, ok := asFloat(r.Location.Lng); !ok {
		errs = append(errs, "Location longitude must be a number")
	}
	return errs
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func (h *Handler) CreatePost(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation Error", "errors": errs})
		return
	}

	lat, _ := asFloat(req.Location.Lat)
	lng, _ := asFloat(req.Location.Lng)
	post := models.Post{
		OwnerID:     userID,
		Video:       req.Video,
		Thumbnail:   req.Thumbnail,
		Description: req.Description,
		Tags:        req.Tags,
		Location: models.Location{
			Description: req.Location.Description,
			Lat:         lat,
			Lng:         lng,
		},
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.posts.Insert(ctx, &post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	summary, err := h.composer.ProjectPost(ctx, &post, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Post created successfully", "post": summary})
}

func (h *Handler) GetPost(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID."})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	post, err := h.posts.Get(ctx, postID)
	if err != nil {
		writePostError(c, err)
		return
	}

	summary, err := h.composer.ProjectPost(ctx, post, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post fetched successfully", "post": summary})
}
