package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"clipstream/middleware"
	"clipstream/models"
)

const tokenLifetime = time.Hour

type SignupRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Username    string `json:"username" binding:"required"`
	Name        string `json:"name"`
	Picture     string `json:"picture"`
	CoverPhoto  string `json:"coverPhoto"`
	Description string `json:"description"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	existing, err := h.users.FindByEmail(ctx, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong."})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "This email is already registered."})
		return
	}

	existing, err = h.users.FindByUsername(ctx, req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong."})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "This username is already taken."})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong."})
		return
	}

	user := models.User{
		Email:       req.Email,
		Password:    string(hashed),
		Username:    req.Username,
		Name:        req.Name,
		Picture:     req.Picture,
		CoverPhoto:  req.CoverPhoto,
		Description: req.Description,
	}
	if err := h.users.Insert(ctx, &user); err != nil {
		log.Printf("Signup insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong."})
		return
	}

	token, err := h.issueToken(user.ID.Hex())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "token": token})
}

type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	var user *models.User
	var err error
	if strings.Contains(req.UsernameOrEmail, "@") {
		user, err = h.users.FindByEmail(ctx, req.UsernameOrEmail)
	} else {
		user, err = h.users.FindByUsername(ctx, req.UsernameOrEmail)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong."})
		return
	}
	if user == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User not found"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid password"})
		return
	}

	token, err := h.issueToken(user.ID.Hex())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
}

func (h *Handler) issueToken(userID string) (string, error) {
	claims := middleware.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

func (h *Handler) GetMyProfile(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	user, err := h.users.Profile(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong."})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User profile retrieved successfully",
		"profile": profileResponse(user),
	})
}

type UpdateProfileRequest struct {
	Username    string `json:"username"`
	Picture     string `json:"picture"`
	CoverPhoto  string `json:"coverPhoto"`
	Name        string `json:"name"`
	Description string `json:"description"`
	FCMToken    string `json:"fcmToken"`
}

func (h *Handler) UpdateMyProfile(c *gin.Context) {
	userID, ok := viewerID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	if req.Username != "" {
		existing, err := h.users.FindByUsername(ctx, req.Username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong."})
			return
		}
		if existing != nil && existing.ID != userID {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username is already taken"})
			return
		}
	}

	fields := bson.M{}
	for key, value := range map[string]string{
		"username":    req.Username,
		"picture":     req.Picture,
		"coverPhoto":  req.CoverPhoto,
		"name":        req.Name,
		"description": req.Description,
		"fcmToken":    req.FCMToken,
	} {
		if value != "" {
			fields[key] = value
		}
	}
	if len(fields) > 0 {
		if err := h.users.UpdateProfile(ctx, userID, fields); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong while updating the profile"})
			return
		}
	}

	user, err := h.users.Profile(ctx, userID)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"profile": profileResponse(user),
	})
}

func profileResponse(user *models.User) gin.H {
	return gin.H{
		"id":          user.ID.Hex(),
		"username":    user.Username,
		"email":       user.Email,
		"name":        user.Name,
		"picture":     user.Picture,
		"coverPhoto":  user.CoverPhoto,
		"description": user.Description,
		"followers":   len(user.Followers),
		"followings":  len(user.Followings),
		"createdAt":   user.CreatedAt,
	}
}
