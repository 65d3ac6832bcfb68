package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"clipstream/config"
	"clipstream/database"
	"clipstream/handlers"
	"clipstream/queue"
	"clipstream/routes"
	"clipstream/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer db.Disconnect(ctx)

	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create indexes:", err)
	}

	// Redis backs rate limiting only; the limiter fails open, so a missing
	// Redis degrades to no limiting rather than an outage.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable (%v), rate limiting disabled", err)
	}

	var jobs *queue.Queue
	if q, err := queue.Connect(cfg.RabbitURL); err != nil {
		log.Printf("RabbitMQ unavailable (%v), video uploads disabled", err)
	} else {
		jobs = q
		defer jobs.Close()
	}

	var cld *cloudinary.Cloudinary
	if cfg.CloudinaryURL != "" {
		cld, err = cloudinary.NewFromURL(cfg.CloudinaryURL)
		if err != nil {
			log.Fatal("Invalid Cloudinary configuration:", err)
		}
	} else {
		log.Println("CLOUDINARY_URL not set, image uploads disabled")
	}

	wsManager := websocket.NewManager()
	go wsManager.Start()

	h := handlers.New(handlers.Options{
		Config:        cfg,
		Users:         database.NewUserStore(db),
		Posts:         database.NewPostStore(db),
		Comments:      database.NewCommentStore(db),
		Stories:       database.NewStoryStore(db),
		Chats:         database.NewChatStore(db),
		Notifications: database.NewNotificationStore(db),
		Uploads:       database.NewUploadStore(db),
		WS:            wsManager,
		Jobs:          jobs,
		Cloudinary:    cld,
	})

	router := routes.SetupRouter(h, cfg, rdb, wsManager)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown:", err)
	}

	log.Println("Server stopped gracefully")
}
