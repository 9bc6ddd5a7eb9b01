package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"legal_connect_go/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

// MinRejectionReasonLength is the minimum length of an admin rejection reason
const MinRejectionReasonLength = 10

var (
	// ErrMissingDocuments signals a registration without all required documents
	ErrMissingDocuments = errors.New("lawyer: registration requires license, diploma, and identity documents")
	// ErrAlreadyRegistered signals a user who already has a lawyer profile
	ErrAlreadyRegistered = errors.New("lawyer: profile already exists for this user")
	// ErrRejectionReasonTooShort signals a rejection reason below the minimum length
	ErrRejectionReasonTooShort = fmt.Errorf("lawyer: rejection reason must be at least %d characters", MinRejectionReasonLength)
	// ErrNotPending signals a verification action on a profile that is not pending
	ErrNotPending = errors.New("lawyer: profile is not pending verification")
)

// RegisterLawyerParams holds the single multipart submission collected
// by the registration wizard.
type RegisterLawyerParams struct {
	Jurisdiction      string
	FullName          string
	LicenseNumber     string
	BarAssociation    string
	ExperienceYears   int
	SpecializationIDs []string
	Languages         []string
}

// Validate applies the per-step predicates of the registration wizard
// as one server-side rule set.
func (p RegisterLawyerParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Jurisdiction, validation.Required, validation.By(func(value interface{}) error {
			code, _ := value.(string)
			if !IsSupportedJurisdiction(code) {
				return fmt.Errorf("unsupported jurisdiction %q", code)
			}
			return nil
		})),
		validation.Field(&p.FullName, validation.Required),
		validation.Field(&p.LicenseNumber, validation.Required),
		validation.Field(&p.BarAssociation, validation.Required),
		validation.Field(&p.ExperienceYears, validation.Min(1)),
		validation.Field(&p.SpecializationIDs, validation.Required, validation.Length(1, 0)),
		validation.Field(&p.Languages, validation.Required, validation.Length(1, 0)),
	)
}

// RegisterLawyer creates a pending lawyer profile for the user from one
// multipart submission. Documents are staged to storage first and the
// profile row commits with all of them or not at all; staged files are
// removed when the transaction fails.
func RegisterLawyer(ctx context.Context, db *gorm.DB, user *models.User, params RegisterLawyerParams, documents map[string]*multipart.FileHeader) (*models.LawyerProfile, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	for _, docType := range models.RequiredLawyerDocuments {
		if documents[docType] == nil {
			return nil, ErrMissingDocuments
		}
	}

	var count int64
	if err := db.Model(&models.LawyerProfile{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("lawyer: check existing profile: %w", err)
	}
	if count > 0 {
		return nil, ErrAlreadyRegistered
	}

	var specialties []models.LegalSpecialty
	if err := db.Where("id IN ? AND is_active = ?", params.SpecializationIDs, true).Find(&specialties).Error; err != nil {
		return nil, fmt.Errorf("lawyer: fetch specializations: %w", err)
	}
	if len(specialties) == 0 {
		return nil, fmt.Errorf("lawyer: no valid specializations selected")
	}

	profile := &models.LawyerProfile{
		UserID:             user.ID,
		Jurisdiction:       strings.ToUpper(params.Jurisdiction),
		FullName:           SanitizeText(params.FullName),
		LicenseNumber:      strings.TrimSpace(params.LicenseNumber),
		BarAssociation:     SanitizeText(params.BarAssociation),
		ExperienceYears:    params.ExperienceYears,
		Specializations:    specialties,
		Languages:          strings.Join(params.Languages, ","),
		VerificationStatus: models.VerificationPending,
	}

	// Stage uploads before touching the database
	var staged []models.LawyerDocument
	var stagedKeys []string
	for _, docType := range models.RequiredLawyerDocuments {
		file := documents[docType]
		key := GenerateLawyerDocumentKey(user.ID, docType, file.Filename)
		result, err := Storage.Upload(ctx, file, key)
		if err != nil {
			cleanupStagedFiles(ctx, stagedKeys)
			return nil, fmt.Errorf("lawyer: upload %s document: %w", docType, err)
		}
		stagedKeys = append(stagedKeys, result.Key)
		staged = append(staged, models.LawyerDocument{
			DocumentType:     docType,
			FileName:         result.FileName,
			FileOriginalName: file.Filename,
			StorageKey:       result.Key,
			FileSize:         result.FileSize,
			MimeType:         result.MimeType,
		})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(profile).Error; err != nil {
			return fmt.Errorf("lawyer: create profile: %w", err)
		}
		for i := range staged {
			staged[i].ProfileID = profile.ID
		}
		if err := tx.Create(&staged).Error; err != nil {
			return fmt.Errorf("lawyer: create documents: %w", err)
		}
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("role", models.RoleLawyer).Error; err != nil {
			return fmt.Errorf("lawyer: promote user role: %w", err)
		}
		return nil
	})
	if err != nil {
		cleanupStagedFiles(ctx, stagedKeys)
		return nil, err
	}

	profile.Documents = staged
	user.Role = models.RoleLawyer
	return profile, nil
}

func cleanupStagedFiles(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := Storage.Delete(ctx, key); err != nil {
			log.Printf("[STORAGE] Failed to remove staged file %s: %v", key, err)
		}
	}
}

// GetLawyersByVerificationStatus lists profiles in a verification state
func GetLawyersByVerificationStatus(db *gorm.DB, status string) ([]models.LawyerProfile, error) {
	if !models.IsValidVerificationStatus(status) {
		return nil, fmt.Errorf("lawyer: invalid verification status %q", status)
	}

	var profiles []models.LawyerProfile
	err := db.Preload("User").
		Preload("Specializations").
		Preload("Documents").
		Where("verification_status = ?", status).
		Order("created_at ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("lawyer: fetch profiles: %w", err)
	}
	return profiles, nil
}

// VerifyLawyer approves a pending profile. The write commits before any
// notification is sent; nothing is removed from the pending set unless
// the update succeeded.
func VerifyLawyer(db *gorm.DB, profile *models.LawyerProfile, admin *models.User) error {
	if profile.VerificationStatus != models.VerificationPending {
		return ErrNotPending
	}

	now := time.Now()
	// Guard against a concurrent decision committed between read and write
	result := db.Model(&models.LawyerProfile{}).
		Where("id = ? AND verification_status = ?", profile.ID, models.VerificationPending).
		Updates(map[string]interface{}{
			"verification_status": models.VerificationVerified,
			"verified_at":         now,
			"verified_by_id":      admin.ID,
			"rejection_reason":    nil,
			"is_available":        true,
		})
	if result.Error != nil {
		return fmt.Errorf("lawyer: verify: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotPending
	}

	profile.VerificationStatus = models.VerificationVerified
	profile.VerifiedAt = &now
	profile.VerifiedByID = &admin.ID
	profile.IsAvailable = true
	return nil
}

// RejectLawyer rejects a pending profile with a reason of at least
// MinRejectionReasonLength characters.
func RejectLawyer(db *gorm.DB, profile *models.LawyerProfile, admin *models.User, reason string) error {
	if profile.VerificationStatus != models.VerificationPending {
		return ErrNotPending
	}

	reason = SanitizeText(reason)
	if len([]rune(reason)) < MinRejectionReasonLength {
		return ErrRejectionReasonTooShort
	}

	now := time.Now()
	result := db.Model(&models.LawyerProfile{}).
		Where("id = ? AND verification_status = ?", profile.ID, models.VerificationPending).
		Updates(map[string]interface{}{
			"verification_status": models.VerificationRejected,
			"rejection_reason":    reason,
			"verified_at":         now,
			"verified_by_id":      admin.ID,
			"is_available":        false,
		})
	if result.Error != nil {
		return fmt.Errorf("lawyer: reject: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotPending
	}

	profile.VerificationStatus = models.VerificationRejected
	profile.RejectionReason = &reason
	profile.VerifiedAt = &now
	profile.VerifiedByID = &admin.ID
	profile.IsAvailable = false
	return nil
}

// SetLawyerAvailability toggles whether a verified lawyer accepts new cases
func SetLawyerAvailability(db *gorm.DB, profile *models.LawyerProfile, available bool) error {
	if profile.VerificationStatus != models.VerificationVerified {
		return fmt.Errorf("lawyer: only verified lawyers can change availability")
	}

	if err := db.Model(profile).Update("is_available", available).Error; err != nil {
		return fmt.Errorf("lawyer: update availability: %w", err)
	}
	profile.IsAvailable = available
	return nil
}

// LawyerDashboard aggregates the assigned caseload for a lawyer
type LawyerDashboard struct {
	TotalAssigned int64            `json:"total_assigned"`
	ByStatus      map[string]int64 `json:"by_status"`
	RecentLogs    []models.CaseLog `json:"recent_logs"`
}

// GetLawyerDashboard builds the dashboard for the lawyer's assigned cases
func GetLawyerDashboard(db *gorm.DB, lawyerID string) (*LawyerDashboard, error) {
	dashboard := &LawyerDashboard{ByStatus: make(map[string]int64)}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	err := db.Model(&models.Case{}).
		Select("status, COUNT(*) as count").
		Where("assigned_to_id = ?", lawyerID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("lawyer: dashboard counts: %w", err)
	}
	for _, c := range counts {
		dashboard.ByStatus[c.Status] = c.Count
		dashboard.TotalAssigned += c.Count
	}

	err = db.Joins("JOIN cases ON cases.id = case_logs.case_id").
		Where("cases.assigned_to_id = ?", lawyerID).
		Order("case_logs.created_at DESC").
		Limit(10).
		Find(&dashboard.RecentLogs).Error
	if err != nil {
		return nil, fmt.Errorf("lawyer: dashboard logs: %w", err)
	}

	return dashboard, nil
}

// SeedSpecialties inserts the default practice areas if none exist
func SeedSpecialties(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.LegalSpecialty{}).Count(&count).Error; err != nil {
		return fmt.Errorf("lawyer: count specialties: %w", err)
	}
	if count > 0 {
		return nil
	}

	names := []string{"Civil Law", "Criminal Law", "Family Law", "Immigration Law", "Labor Law", "Commercial Law", "Administrative Law"}
	specialties := make([]models.LegalSpecialty, 0, len(names))
	for _, name := range names {
		slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
		specialties = append(specialties, models.LegalSpecialty{Name: name, Slug: slug, IsActive: true})
	}
	if err := db.Create(&specialties).Error; err != nil {
		return fmt.Errorf("lawyer: seed specialties: %w", err)
	}
	return nil
}
