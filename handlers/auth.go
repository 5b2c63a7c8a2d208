package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"menu-api/apperr"
	"menu-api/config"
	"menu-api/middleware"
	"menu-api/models"
	"menu-api/resilience"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account and returns a token for it.
func Register(c *gin.Context) {
	createAccount(c, models.RoleUser)
}

// CreateAdmin creates another admin account. The admin-only guard runs
// in the route middleware.
func CreateAdmin(c *gin.Context) {
	createAccount(c, models.RoleAdmin)
}

func createAccount(c *gin.Context, role models.Role) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}

	if errs := models.ValidateRegistration(req.Name, req.Email, req.PhoneNumber, req.Password); len(errs) > 0 {
		fail(c, apperr.InvalidInput("Validation failed", errs...))
		return
	}

	// Hash before touching the store: a short password must never
	// reach it, and bcrypt work should not run inside the retry loop.
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		fail(c, err)
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        models.NormalizeEmail(req.Email),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Role:         role,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	err = resilience.DBOperation(c.Request.Context(), func(ctx context.Context) error {
		var existing models.User
		if err := config.DB.WithContext(ctx).Where("email = ?", user.Email).First(&existing).Error; err == nil {
			return apperr.Conflict("Email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := config.DB.WithContext(ctx).Where("phone_number = ?", user.PhoneNumber).First(&existing).Error; err == nil {
			return apperr.Conflict("Phone number already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return asConflict(config.DB.WithContext(ctx).Create(&user).Error, "Email or phone number already registered")
	})
	if err != nil {
		fail(c, err)
		return
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, 201, gin.H{
		"message": "Account created successfully",
		"token":   token,
		"user":    user,
	})
}

// Login authenticates a user and returns a fresh token.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, bindError(err))
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		fail(c, apperr.InvalidInput("Validation failed", "email and password are required"))
		return
	}

	var user models.User
	err := resilience.DBOperation(c.Request.Context(), func(ctx context.Context) error {
		// An unknown email maps straight to the credential error: the
		// miss is deterministic (never retried), and the message is the
		// same one a password mismatch produces, so neither the body
		// nor the response time says which half was wrong.
		return notFound(config.DB.WithContext(ctx).
			Where("email = ?", models.NormalizeEmail(req.Email)).
			First(&user).Error, apperr.Unauthorized("Invalid email or password"))
	})
	if err != nil {
		fail(c, err)
		return
	}

	if !user.IsActive {
		fail(c, apperr.Unauthorized("Account is deactivated"))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		fail(c, apperr.Unauthorized("Invalid email or password"))
		return
	}

	now := time.Now()
	user.LastLogin = &now
	if err := resilience.DBOperation(c.Request.Context(), func(ctx context.Context) error {
		return config.DB.WithContext(ctx).Model(&user).Update("last_login", &now).Error
	}); err != nil {
		fail(c, err)
		return
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, 200, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// GetProfile returns the authenticated user's profile.
func GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var user models.User
	err := resilience.DBOperation(c.Request.Context(), func(ctx context.Context) error {
		return notFound(config.DB.WithContext(ctx).First(&user, userID).Error, apperr.NotFound("User not found"))
	})
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, 200, gin.H{"user": user})
}
