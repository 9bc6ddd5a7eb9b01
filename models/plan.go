package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan slug constants
const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

// Plan defines the limits attached to a subscription tier
type Plan struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Slug         string  `gorm:"uniqueIndex;not null" json:"slug"`
	Name         string  `gorm:"not null" json:"name"`
	MonthlyPrice float64 `gorm:"not null;default:0" json:"monthly_price"`

	// Limits (0 means unlimited)
	MaxActiveCases  int  `gorm:"not null;default:0" json:"max_active_cases"`
	MaxChatMessages int  `gorm:"not null;default:0" json:"max_chat_messages"` // per day
	IsActive        bool `gorm:"not null;default:true" json:"is_active"`
}

// BeforeCreate hook to generate UUID
func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Plan model
func (Plan) TableName() string {
	return "plans"
}

// IsUnlimitedCases reports whether the plan carries no case limit
func (p *Plan) IsUnlimitedCases() bool {
	return p.MaxActiveCases == 0
}
