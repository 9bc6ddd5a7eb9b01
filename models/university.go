package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// University is a discoverable institution in the student advisory catalog
type University struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string  `gorm:"not null;index" json:"name"`
	Country     string  `gorm:"size:2;not null;index" json:"country"` // ISO country code
	City        string  `gorm:"not null" json:"city"`
	Website     *string `json:"website,omitempty"`
	Description string  `gorm:"type:text" json:"description"`

	// Catalog attributes used by client-side filters
	DegreeLevels string   `json:"degree_levels"` // comma-separated: bachelor, master, phd
	TuitionMin   *float64 `json:"tuition_min,omitempty"`
	TuitionMax   *float64 `json:"tuition_max,omitempty"`
	Ranking      *int     `json:"ranking,omitempty"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`
}

// BeforeCreate hook to generate UUID
func (u *University) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for University model
func (University) TableName() string {
	return "universities"
}
