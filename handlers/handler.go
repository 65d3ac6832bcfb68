package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"clipstream/config"
	"clipstream/database"
	"clipstream/feed"
	"clipstream/queue"
	"clipstream/websocket"
)

const requestTimeout = 10 * time.Second

// Handler carries every dependency the HTTP layer needs. It is assembled in
// main and shared by all routes; there is no package-level state.
type Handler struct {
	cfg           *config.Config
	users         *database.UserStore
	posts         *database.PostStore
	comments      *database.CommentStore
	stories       *database.StoryStore
	chats         *database.ChatStore
	notifications *database.NotificationStore
	uploads       *database.UploadStore
	composer      *feed.Composer
	ws            *websocket.Manager
	jobs          *queue.Queue
	cld           *cloudinary.Cloudinary
}

type Options struct {
	Config        *config.Config
	Users         *database.UserStore
	Posts         *database.PostStore
	Comments      *database.CommentStore
	Stories       *database.StoryStore
	Chats         *database.ChatStore
	Notifications *database.NotificationStore
	Uploads       *database.UploadStore
	WS            *websocket.Manager
	Jobs          *queue.Queue
	Cloudinary    *cloudinary.Cloudinary
}

func New(opts Options) *Handler {
	return &Handler{
		cfg:           opts.Config,
		users:         opts.Users,
		posts:         opts.Posts,
		comments:      opts.Comments,
		stories:       opts.Stories,
		chats:         opts.Chats,
		notifications: opts.Notifications,
		uploads:       opts.Uploads,
		composer:      feed.NewComposer(opts.Posts, opts.Users),
		ws:            opts.WS,
		jobs:          opts.Jobs,
		cld:           opts.Cloudinary,
	}
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// viewerID reads the authenticated user id set by the JWT middleware.
func viewerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// writeFeedError maps composer errors onto the HTTP surface: bad pagination
// and out-of-range pages are client errors, everything else is internal.
func writeFeedError(c *gin.Context, err error) {
	var pageErr *feed.PageOutOfRangeError
	switch {
	case errors.Is(err, feed.ErrInvalidPagination):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid pagination values."})
	case errors.As(err, &pageErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": pageErr.Error()})
	case errors.Is(err, feed.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
	}
}

func writePostError(c *gin.Context, err error) {
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
}

func parsePagination(c *gin.Context) (feed.Pagination, bool) {
	pg, err := feed.ParsePagination(c.Query("itemsPerPage"), c.Query("pageNumber"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid pagination values."})
		return feed.Pagination{}, false
	}
	return pg, true
}
