package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"clipstream/middleware"
)

// Discover serves one page of the trending+random discovery feed. The client
// echoes the returned exclude list back on its next call; the server keeps no
// session state.
func (h *Handler) Discover(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}
	pg, ok := parsePagination(c)
	if !ok {
		return
	}
	exclude := parseExclude(c)

	ctx, cancel := requestContext()
	defer cancel()

	page, err := h.composer.Discover(ctx, userID, pg, exclude)
	if err != nil {
		writeFeedError(c, err)
		return
	}
	middleware.CountFeedPage("discover")

	if len(page.Posts) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message": "No posts available for this session",
			"posts":   page.Posts,
			"exclude": hexIDs(page.Exclude),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Trending and random posts fetched successfully",
		"posts":   page.Posts,
		"exclude": hexIDs(page.Exclude),
	})
}

// parseExclude reads already-seen post ids from either repeated exclude
// params or one comma-separated value. Malformed ids are skipped; a client
// that corrupts its exclusion list just risks repeats.
func parseExclude(c *gin.Context) []primitive.ObjectID {
	var raw []string
	for _, v := range c.QueryArray("exclude") {
		raw = append(raw, strings.Split(v, ",")...)
	}

	var ids []primitive.ObjectID
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}

func (h *Handler) FollowingsFeed(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}
	pg, ok := parsePagination(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	page, err := h.composer.FollowingsFeed(ctx, userID, pg)
	if err != nil {
		writeFeedError(c, err)
		return
	}
	middleware.CountFeedPage("followings")

	c.JSON(http.StatusOK, gin.H{
		"message":    "Followings posts fetched successfully",
		"posts":      page.Posts,
		"pagination": page.Pagination,
	})
}

func (h *Handler) LikedPosts(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}
	pg, ok := parsePagination(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	page, err := h.composer.LikedFeed(ctx, userID, pg)
	if err != nil {
		writeFeedError(c, err)
		return
	}
	middleware.CountFeedPage("liked")

	c.JSON(http.StatusOK, gin.H{
		"message":    "Liked posts fetched successfully",
		"posts":      page.Posts,
		"pagination": page.Pagination,
	})
}

func (h *Handler) SavedPosts(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}
	pg, ok := parsePagination(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	page, err := h.composer.SavedFeed(ctx, userID, pg)
	if err != nil {
		writeFeedError(c, err)
		return
	}
	middleware.CountFeedPage("saved")

	c.JSON(http.StatusOK, gin.H{
		"message":    "Saved posts fetched successfully",
		"posts":      page.Posts,
		"pagination": page.Pagination,
	})
}

// MyPosts pages through the viewer's own uploads.
func (h *Handler) MyPosts(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}
	h.ownerPosts(c, userID, userID)
}

// UserPosts pages through another user's uploads, viewed by the caller.
func (h *Handler) UserPosts(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}

	ownerID, err := primitive.ObjectIDFromHex(c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID."})
		return
	}
	h.ownerPosts(c, userID, ownerID)
}

func (h *Handler) ownerPosts(c *gin.Context, viewer, owner primitive.ObjectID) {
	pg, ok := parsePagination(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	page, err := h.composer.OwnerFeed(ctx, viewer, owner, pg)
	if err != nil {
		writeFeedError(c, err)
		return
	}
	middleware.CountFeedPage("owner")

	c.JSON(http.StatusOK, gin.H{
		"message":    "Posts fetched successfully",
		"posts":      page.Posts,
		"pagination": page.Pagination,
	})
}
