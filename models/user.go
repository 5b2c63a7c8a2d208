package models

import (
	"regexp"
	"strings"
	"time"
)

// Role defines allowed roles in the system
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PhoneNumber  string     `json:"phoneNumber" gorm:"uniqueIndex;not null"`
	Role         Role       `json:"role" gorm:"not null;default:'user'"`
	PasswordHash string     `json:"-" gorm:"not null"`
	IsActive     bool       `json:"isActive" gorm:"not null;default:true"`
	LastLogin    *time.Time `json:"lastLogin"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]{7,20}$`)
)

// NormalizeEmail lowercases and trims an email address before lookup
// or storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration checks the registration fields and returns
// human-readable messages for everything wrong with them.
func ValidateRegistration(name, email, phoneNumber, password string) []string {
	var errs []string

	name = strings.TrimSpace(name)
	if name == "" {
		errs = append(errs, "name is required")
	} else if len(name) < 2 || len(name) > 50 {
		errs = append(errs, "name must be between 2 and 50 characters")
	}

	email = strings.TrimSpace(email)
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailPattern.MatchString(email) {
		errs = append(errs, "email is not a valid email address")
	}

	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		errs = append(errs, "phone number is required")
	} else if !phonePattern.MatchString(phoneNumber) {
		errs = append(errs, "phone number is not a valid phone number")
	}

	if password == "" {
		errs = append(errs, "password is required")
	} else if len(password) < 6 {
		errs = append(errs, "password must be at least 6 characters")
	}

	return errs
}
