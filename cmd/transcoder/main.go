package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"clipstream/config"
	"clipstream/database"
	"clipstream/queue"
)

const jobTimeout = 10 * time.Minute

// worker transcodes queued uploads to HLS and publishes the result.
type worker struct {
	uploads *database.UploadStore
	cld     *cloudinary.Cloudinary
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer db.Disconnect(ctx)

	if cfg.CloudinaryURL == "" {
		log.Fatal("CLOUDINARY_URL must be set for the transcoder")
	}
	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		log.Fatal("Invalid Cloudinary configuration:", err)
	}

	jobs, err := queue.Connect(cfg.RabbitURL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer jobs.Close()

	w := &worker{
		uploads: database.NewUploadStore(db),
		cld:     cld,
	}

	runCtx, cancel := context.WithCancel(ctx)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down transcoder...")
		cancel()
	}()

	log.Println("Transcoder waiting for jobs")
	if err := jobs.ConsumeTranscode(runCtx, w.process); err != nil && err != context.Canceled {
		log.Fatal("Consumer stopped:", err)
	}
}

func (w *worker) process(ctx context.Context, job queue.TranscodeJob) {
	log.Printf("Processing upload %s (%s)", job.UploadID, job.Filename)

	uploadID, err := primitive.ObjectIDFromHex(job.UploadID)
	if err != nil {
		log.Printf("Skipping job with bad upload id %q: %v", job.UploadID, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	if err := w.uploads.SetProcessing(ctx, uploadID); err != nil {
		log.Printf("Failed to mark upload %s processing: %v", job.UploadID, err)
		return
	}

	url, thumbnail, err := w.transcode(ctx, uploadID, job.Path)
	os.Remove(job.Path)
	if err != nil {
		log.Printf("Transcode of upload %s failed: %v", job.UploadID, err)
		if err := w.uploads.SetFailed(ctx, uploadID, err.Error()); err != nil {
			log.Printf("Failed to mark upload %s failed: %v", job.UploadID, err)
		}
		return
	}

	if err := w.uploads.SetResult(ctx, uploadID, url, thumbnail); err != nil {
		log.Printf("Failed to record result for upload %s: %v", job.UploadID, err)
		return
	}
	log.Printf("Upload %s done", job.UploadID)
}

// transcode renders an HLS playlist plus a poster frame from the raw file and
// pushes both to Cloudinary. The playlist upload carries its segments along.
func (w *worker) transcode(ctx context.Context, uploadID primitive.ObjectID, src string) (string, string, error) {
	workDir, err := os.MkdirTemp("", "transcode-"+uploadID.Hex())
	if err != nil {
		return "", "", fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	playlist := filepath.Join(workDir, "index.m3u8")
	segments := filepath.Join(workDir, "segment_%03d.ts")

	hls := exec.CommandContext(ctx, "ffmpeg",
		"-i", src,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-hls_time", "2",
		"-hls_playlist_type", "vod",
		"-hls_segment_filename", segments,
		playlist,
	)
	if out, err := hls.CombinedOutput(); err != nil {
		return "", "", fmt.Errorf("ffmpeg hls: %w: %s", err, tail(out))
	}

	poster := filepath.Join(workDir, "poster.jpg")
	thumb := exec.CommandContext(ctx, "ffmpeg",
		"-i", src,
		"-ss", "00:00:01",
		"-vframes", "1",
		poster,
	)
	if out, err := thumb.CombinedOutput(); err != nil {
		return "", "", fmt.Errorf("ffmpeg poster: %w: %s", err, tail(out))
	}

	videoRes, err := w.cld.Upload.Upload(ctx, playlist, uploader.UploadParams{
		Folder:       "clipstream/videos",
		PublicID:     uploadID.Hex(),
		ResourceType: "video",
	})
	if err != nil {
		return "", "", fmt.Errorf("upload playlist: %w", err)
	}

	thumbRes, err := w.cld.Upload.Upload(ctx, poster, uploader.UploadParams{
		Folder:   "clipstream/thumbnails",
		PublicID: uploadID.Hex(),
	})
	if err != nil {
		return "", "", fmt.Errorf("upload poster: %w", err)
	}

	return videoRes.SecureURL, thumbRes.SecureURL, nil
}

func tail(out []byte) string {
	const max = 512
	if len(out) > max {
		out = out[len(out)-max:]
	}
	return string(out)
}
