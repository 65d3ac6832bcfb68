package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"clipstream/database"
	"clipstream/feed"
	"clipstream/models"
)

func postIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid post ID."})
		return primitive.NilObjectID, false
	}
	return id, true
}

// LikePost toggles the viewer's like on a post. Repeating the call undoes it.
func (h *Handler) LikePost(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	liked, err := h.posts.ToggleLike(ctx, postID, userID)
	if err != nil {
		writePostError(c, err)
		return
	}

	if liked {
		c.JSON(http.StatusOK, gin.H{"message": "Post liked successfully", "isLiked": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post unliked successfully", "isLiked": false})
}

// SavePost toggles the viewer's save on a post.
func (h *Handler) SavePost(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	saved, err := h.posts.ToggleSave(ctx, postID, userID)
	if err != nil {
		writePostError(c, err)
		return
	}

	if saved {
		c.JSON(http.StatusOK, gin.H{"message": "Post saved successfully", "isSaved": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post unsaved successfully", "isSaved": false})
}

// SharePost records one share event. Shares accumulate; there is no unshare.
func (h *Handler) SharePost(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.posts.AddShare(ctx, postID, userID); err != nil {
		writePostError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post shared successfully"})
}

type CommentRequest struct {
	Text             string `json:"text"`
	ReplyToCommentID string `json:"replyToCommentId"`
}

func (h *Handler) CommentOnPost(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Comment text is required"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	if _, err := h.posts.Get(ctx, postID); err != nil {
		writePostError(c, err)
		return
	}

	comment := models.Comment{
		PostID:  postID,
		OwnerID: userID,
		Text:    req.Text,
	}
	if err := h.comments.Insert(ctx, &comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	if req.ReplyToCommentID != "" {
		parentID, err := primitive.ObjectIDFromHex(req.ReplyToCommentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid comment ID."})
			return
		}
		switch err := h.comments.AttachReply(ctx, parentID, postID, comment.ID); {
		case errors.Is(err, database.ErrCommentMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Parent Comment does not belong to this post"})
			return
		case errors.Is(err, database.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
			return
		}
	} else {
		if err := h.posts.AttachComment(ctx, postID, comment.ID); err != nil {
			writePostError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment added successfully",
		"comment": gin.H{
			"_id":       comment.ID.Hex(),
			"text":      comment.Text,
			"createdAt": comment.CreatedAt,
		},
	})
}

// GetComments pages through a post's top-level comments, or through a
// comment's replies when replyToCommentId is given.
func (h *Handler) GetComments(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}
	postID, ok := postIDParam(c)
	if !ok {
		return
	}
	pg, ok := parsePagination(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	var ids []primitive.ObjectID
	if raw := c.Query("replyToCommentId"); raw != "" {
		parentID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid comment ID."})
			return
		}
		parent, err := h.comments.Get(ctx, parentID)
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
			return
		}
		if parent.PostID != postID {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Parent Comment does not belong to this post"})
			return
		}
		ids = parent.Replies
	} else {
		post, err := h.posts.Get(ctx, postID)
		if err != nil {
			writePostError(c, err)
			return
		}
		ids = post.Comments
	}

	comments, err := h.comments.ListByIDs(ctx, ids, pg.Skip(), int64(pg.Items))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	views := make([]gin.H, 0, len(comments))
	for _, comment := range comments {
		view, err := h.commentView(ctx, comment, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
			return
		}
		views = append(views, view)
	}

	total := int64(len(ids))
	pages := (total + int64(pg.Items) - 1) / int64(pg.Items)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Comments fetched successfully",
		"comments": views,
		"pagination": feed.PageInfo{
			TotalItems:   total,
			TotalPages:   pages,
			CurrentPage:  pg.Page,
			ItemsPerPage: pg.Items,
			HasMore:      int64(pg.Page) < pages,
		},
	})
}

func (h *Handler) commentView(ctx context.Context, comment models.Comment, viewer primitive.ObjectID) (gin.H, error) {
	owner := gin.H{"id": comment.OwnerID.Hex()}
	profile, err := h.users.Profile(ctx, comment.OwnerID)
	if err != nil {
		return nil, err
	}
	if profile != nil {
		owner["name"] = profile.Name
		owner["picture"] = profile.Picture
	}

	isLiked := false
	for _, id := range comment.Likes {
		if id == viewer {
			isLiked = true
			break
		}
	}

	return gin.H{
		"_id":          comment.ID.Hex(),
		"text":         comment.Text,
		"owner":        owner,
		"likesCount":   len(comment.Likes),
		"repliesCount": len(comment.Replies),
		"isLiked":      isLiked,
		"createdAt":    comment.CreatedAt,
	}, nil
}

// LikeComment toggles the viewer's like on a comment.
func (h *Handler) LikeComment(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}
	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid comment ID."})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	liked, err := h.comments.ToggleLike(ctx, commentID, userID)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	if liked {
		c.JSON(http.StatusOK, gin.H{"message": "Comment liked successfully", "isLiked": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment unliked successfully", "isLiked": false})
}
