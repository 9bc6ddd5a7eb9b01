package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Listing kind constants
const (
	ListingKindHousing = "housing"
	ListingKindJob     = "job"
)

// Listing is a housing or job posting on the student advisory side
type Listing struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Kind        string `gorm:"not null;index" json:"kind"` // housing, job
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	City        string `gorm:"not null;index" json:"city"`

	// Price for housing, monthly salary for jobs
	Amount   *float64 `json:"amount,omitempty"`
	Currency string   `gorm:"size:3;default:EUR" json:"currency"`

	ContactEmail *string `json:"contact_email,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`

	OwnerID  string `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner    User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
}

// BeforeCreate hook to generate UUID
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Listing model
func (Listing) TableName() string {
	return "listings"
}

// IsValidListingKind checks if the kind is valid
func IsValidListingKind(kind string) bool {
	return kind == ListingKindHousing || kind == ListingKindJob
}
