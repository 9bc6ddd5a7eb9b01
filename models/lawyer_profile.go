package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Lawyer verification status constants
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// Required registration document types
const (
	LawyerDocLicense  = "license"
	LawyerDocDiploma  = "diploma"
	LawyerDocIdentity = "identity"
)

// RequiredLawyerDocuments lists the document types a registration must carry
var RequiredLawyerDocuments = []string{LawyerDocLicense, LawyerDocDiploma, LawyerDocIdentity}

// LawyerProfile holds the professional record created by lawyer registration
type LawyerProfile struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID string `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Professional identity
	Jurisdiction    string `gorm:"size:2;not null" json:"jurisdiction"` // ISO country code
	FullName        string `gorm:"not null" json:"full_name"`
	LicenseNumber   string `gorm:"not null" json:"license_number"`
	BarAssociation  string `gorm:"not null" json:"bar_association"`
	ExperienceYears int    `gorm:"not null" json:"experience_years"`

	// Taxonomy
	Specializations []LegalSpecialty `gorm:"many2many:lawyer_specializations;" json:"specializations,omitempty"`
	Languages       string           `gorm:"not null" json:"languages"` // comma-separated language codes

	// Verification workflow
	VerificationStatus string     `gorm:"not null;default:pending;index" json:"verification_status"`
	RejectionReason    *string    `gorm:"type:text" json:"rejection_reason,omitempty"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
	VerifiedByID       *string    `gorm:"type:uuid" json:"verified_by_id,omitempty"`

	// Marketplace availability
	IsAvailable bool `gorm:"not null;default:false" json:"is_available"`

	Documents []LawyerDocument `gorm:"foreignKey:ProfileID" json:"documents,omitempty"`
}

// BeforeCreate hook to generate UUID
func (p *LawyerProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for LawyerProfile model
func (LawyerProfile) TableName() string {
	return "lawyer_profiles"
}

// LanguageList splits the stored language codes
func (p *LawyerProfile) LanguageList() []string {
	if p.Languages == "" {
		return nil
	}
	parts := strings.Split(p.Languages, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// IsValidVerificationStatus checks if the status is valid
func IsValidVerificationStatus(status string) bool {
	return status == VerificationPending || status == VerificationVerified || status == VerificationRejected
}

// LawyerDocument is a registration document attached to a lawyer profile
type LawyerDocument struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ProfileID string `gorm:"type:uuid;not null;index" json:"profile_id"`

	DocumentType     string `gorm:"not null" json:"document_type"` // license, diploma, identity
	FileName         string `gorm:"not null" json:"file_name"`
	FileOriginalName string `gorm:"not null" json:"file_original_name"`
	StorageKey       string `gorm:"not null" json:"-"`
	FileSize         int64  `gorm:"not null" json:"file_size"`
	MimeType         string `json:"mime_type,omitempty"`
}

// BeforeCreate hook to generate UUID
func (d *LawyerDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for LawyerDocument model
func (LawyerDocument) TableName() string {
	return "lawyer_documents"
}

// LegalSpecialty is a practice area a lawyer can register under
type LegalSpecialty struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	Slug     string `gorm:"uniqueIndex;not null" json:"slug"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
}

// BeforeCreate hook to generate UUID
func (s *LegalSpecialty) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for LegalSpecialty model
func (LegalSpecialty) TableName() string {
	return "legal_specialties"
}
