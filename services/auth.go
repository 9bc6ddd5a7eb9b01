package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"legal_connect_go/config"
	"legal_connect_go/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials signals wrong email or password
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrWeakPassword signals the password doesn't meet requirements
	ErrWeakPassword = errors.New("auth: password must be at least 8 characters")
	// ErrEmailTaken signals a registration against an existing email
	ErrEmailTaken = errors.New("auth: email is already registered")
	// ErrInvalidToken signals a malformed, expired, or forged bearer token
	ErrInvalidToken = errors.New("auth: invalid token")
)

// TokenClaims are the JWT claims carried by a bearer token
type TokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// RegisterUser creates a new account with a hashed password
func RegisterUser(db *gorm.DB, name, email, password, role string) (*models.User, error) {
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, fmt.Errorf("auth: name and email are required")
	}
	if role == "" {
		role = models.RoleStudent
	}
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("auth: invalid role %q", role)
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("auth: check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("auth: create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies credentials and returns the user with a signed bearer token
func Authenticate(db *gorm.DB, cfg *config.Config, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := db.Where("email = ? AND is_active = ?", email, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("auth: fetch user: %w", err)
	}

	if !CheckPassword(user.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := GenerateToken(cfg, &user)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := db.Model(&user).Update("last_login_at", now).Error; err != nil {
		return nil, "", fmt.Errorf("auth: update last login: %w", err)
	}

	return &user, token, nil
}

// GenerateToken signs a bearer token for the user
func GenerateToken(cfg *config.Config, user *models.User) (string, error) {
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	claims := TokenClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a bearer token and returns its claims
func ParseToken(cfg *config.Config, tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
