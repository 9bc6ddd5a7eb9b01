package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription status constants
const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

// UserSubscription links a user to a plan
type UserSubscription struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	PlanID string `gorm:"type:uuid;not null;index" json:"plan_id"`
	Plan   *Plan  `gorm:"foreignKey:PlanID" json:"plan,omitempty"`

	Status      string     `gorm:"not null;default:active;index" json:"status"`
	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// BeforeCreate hook to generate UUID and set StartedAt
func (s *UserSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.StartedAt.IsZero() {
		s.StartedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for UserSubscription model
func (UserSubscription) TableName() string {
	return "user_subscriptions"
}

// IsActive reports whether the subscription is currently usable
func (s *UserSubscription) IsActive() bool {
	if s.Status != SubscriptionActive {
		return false
	}
	if s.ExpiresAt != nil && s.ExpiresAt.Before(time.Now()) {
		return false
	}
	return true
}
