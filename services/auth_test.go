package services

import (
	"testing"

	"legal_connect_go/config"
	"legal_connect_go/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret-that-is-long-enough-0001",
		TokenTTLHours: 1,
		Environment:   "test",
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}

func TestRegisterUser(t *testing.T) {
	db := setupAuthTestDB(t)

	user, err := RegisterUser(db, "Iryna Bondar", "Iryna@Example.com", "password123", "")
	assert.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Equal(t, "iryna@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "password123", user.Password)

	t.Run("weak password", func(t *testing.T) {
		_, err := RegisterUser(db, "Short", "short@example.com", "short", "")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := RegisterUser(db, "Again", "iryna@example.com", "password123", "")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := RegisterUser(db, "Bad Role", "role@example.com", "password123", "superuser")
		assert.Error(t, err)
	})
}

func TestAuthenticate(t *testing.T) {
	db := setupAuthTestDB(t)
	cfg := authTestConfig()

	_, err := RegisterUser(db, "Iryna", "iryna@example.com", "password123", "")
	assert.NoError(t, err)

	user, token, err := Authenticate(db, cfg, "iryna@example.com", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotNil(t, user.LastLoginAt)

	claims, err := ParseToken(cfg, token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, models.RoleStudent, claims.Role)

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := Authenticate(db, cfg, "iryna@example.com", "nope-nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := Authenticate(db, cfg, "ghost@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthenticate_DeactivatedUser(t *testing.T) {
	db := setupAuthTestDB(t)
	cfg := authTestConfig()

	user, err := RegisterUser(db, "Iryna", "iryna@example.com", "password123", "")
	assert.NoError(t, err)
	assert.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, _, err = Authenticate(db, cfg, "iryna@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestParseToken_RejectsForgery(t *testing.T) {
	cfg := authTestConfig()

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseToken(cfg, "not-a-token")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := &config.Config{JWTSecret: "another-secret-that-is-long-enough", TokenTTLHours: 1}
		token, err := GenerateToken(other, &models.User{ID: "user-1", Role: models.RoleStudent})
		assert.NoError(t, err)

		_, err = ParseToken(cfg, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong signing method", func(t *testing.T) {
		// alg=none tokens must never parse
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-1"})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		assert.NoError(t, err)

		_, err = ParseToken(cfg, raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
