package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"clipstream/database"
	"clipstream/models"
	"clipstream/queue"
)

const uploadFormLimit = 100 << 20

// UploadImage pushes an image straight to Cloudinary and returns its URL.
// Images need no transcoding, so there is no job record for them.
func (h *Handler) UploadImage(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}
	if h.cld == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Uploads are not configured"})
		return
	}

	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to parse form data"})
		return
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No image file provided"})
		return
	}
	defer file.Close()

	ctx, cancel := requestContext()
	defer cancel()

	result, err := h.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         "clipstream/images",
		PublicID:       userID.Hex() + "_" + time.Now().Format("20060102150405"),
		Transformation: "c_limit,w_1080,q_auto",
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image uploaded successfully", "url": result.SecureURL})
}

// UploadVideo stages the raw file on shared storage, records a queued upload
// and hands the transcoding job to the worker. The client polls UploadStatus
// for the result.
func (h *Handler) UploadVideo(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}
	if h.jobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Uploads are not configured"})
		return
	}

	if err := c.Request.ParseMultipartForm(uploadFormLimit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Failed to parse form data"})
		return
	}

	file, header, err := c.Request.FormFile("video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No video file provided"})
		return
	}
	defer file.Close()

	ctx, cancel := requestContext()
	defer cancel()

	upload := models.Upload{
		OwnerID:  userID,
		Filename: header.Filename,
	}
	if err := h.uploads.Insert(ctx, &upload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	path := filepath.Join(os.TempDir(), upload.ID.Hex()+filepath.Ext(header.Filename))
	dst, err := os.Create(path)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store upload"})
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(path)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store upload"})
		return
	}
	dst.Close()

	job := queue.TranscodeJob{
		UploadID: upload.ID.Hex(),
		Path:     path,
		Filename: header.Filename,
	}
	if err := h.jobs.PublishTranscode(ctx, job); err != nil {
		os.Remove(path)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to queue upload"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message":  "Video queued for processing",
		"uploadId": upload.ID.Hex(),
		"status":   upload.Status,
	})
}

func (h *Handler) UploadStatus(c *gin.Context) {
	if _, ok := viewerID(c); !ok {
		return
	}

	uploadID, err := primitive.ObjectIDFromHex(c.Param("uploadId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid upload ID."})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	upload, err := h.uploads.Get(ctx, uploadID)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Upload not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Upload status fetched successfully", "upload": upload})
}
