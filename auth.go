package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-key"
	}
	return []byte(secret)
}

func GenerateToken(username string) (string, error) {
	claims := jwt.MapClaims{
		"username": username,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ========================
// SIGNUP HANDLER
// ========================

func Signup(c *gin.Context) {
	var body SignupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, validationError("Username and password required"))
		return
	}

	// Passwords are stored as-is, faithful to the original app. Known
	// defect; hardening is out of scope.
	user := User{Username: body.Username, Password: body.Password, Role: "user"}
	if err := DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, conflictError("Username already exists"))
			return
		}
		respondError(c, err)
		return
	}

	recordUsage(user.Username, "user:signup", "")

	c.JSON(http.StatusOK, gin.H{"success": true, "username": user.Username})
}

// ========================
// LOGIN HANDLER
// ========================

func Login(c *gin.Context) {
	var body LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, validationError("Username and password required"))
		return
	}

	var user User
	if err := DB.Where("username = ?", body.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	if user.Password != body.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	token, err := GenerateToken(user.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "username": user.Username, "token": token})
}
