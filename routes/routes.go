package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"clipstream/config"
	"clipstream/handlers"
	"clipstream/middleware"
	"clipstream/websocket"
)

const (
	rateLimit       = 120
	rateLimitWindow = time.Minute
)

func SetupRouter(h *handlers.Handler, cfg *config.Config, rdb *redis.Client, ws *websocket.Manager) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8080", "http://127.0.0.1:8080", "http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.Prometheus())

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	router.POST("/api/signup", h.Signup)
	router.POST("/api/login", h.Login)
	router.GET("/api/vapid-public-key", h.GetVapidPublicKey)

	// Protected routes group
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuth(cfg.JWTSecret))
	protected.Use(middleware.RateLimit(rdb, rateLimit, rateLimitWindow))

	// Profile
	protected.GET("/me", h.GetMyProfile)
	protected.PUT("/me", h.UpdateMyProfile)
	protected.GET("/user/:userId", h.GetUser)
	protected.POST("/user/:userId/follow", h.FollowUser)

	// Feeds
	protected.GET("/posts/discover", h.Discover)
	protected.GET("/posts/followings", h.FollowingsFeed)
	protected.GET("/posts/liked", h.LikedPosts)
	protected.GET("/posts/saved", h.SavedPosts)
	protected.GET("/my/posts", h.MyPosts)
	protected.GET("/posts/by-user", h.UserPosts)

	// Posts and engagement
	protected.POST("/post", h.CreatePost)
	protected.GET("/post/:postId", h.GetPost)
	protected.POST("/post/:postId/like", h.LikePost)
	protected.POST("/post/:postId/save", h.SavePost)
	protected.POST("/post/:postId/share", h.SharePost)
	protected.POST("/post/:postId/comment", h.CommentOnPost)
	protected.GET("/post/:postId/comments", h.GetComments)
	protected.POST("/comment/:commentId/like", h.LikeComment)

	// Stories
	protected.POST("/story", h.AddStory)
	protected.GET("/stories", h.GetStories)
	protected.GET("/stories/:userId", h.GetStoriesByOwner)

	// Chats
	protected.GET("/chats", h.GetConversations)
	protected.GET("/messages/:userId", h.GetMessages)
	protected.POST("/message", h.SendMessage)

	// Notifications
	protected.POST("/notification", h.SendNotification)
	protected.GET("/notifications", h.GetNotifications)
	protected.POST("/subscribe", h.SubscribePush)

	// Uploads
	protected.POST("/upload/image", h.UploadImage)
	protected.POST("/upload/video", h.UploadVideo)
	protected.GET("/upload/:uploadId/status", h.UploadStatus)

	// WebSocket upgrade goes through the same JWT middleware; browsers pass
	// the token as a query parameter.
	wsGroup := router.Group("/ws")
	wsGroup.Use(middleware.JWTAuth(cfg.JWTSecret))
	wsGroup.GET("", func(c *gin.Context) {
		websocket.Handler(ws, c.GetString("userId"))(c.Writer, c.Request)
	})

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Endpoint not found",
				"path":    c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
