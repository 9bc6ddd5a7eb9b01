package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaseLog event type constants
const (
	CaseLogCreated         = "created"
	CaseLogUpdated         = "updated"
	CaseLogStatusChange    = "status_change"
	CaseLogAssignment      = "assignment"
	CaseLogNote            = "note"
	CaseLogDocumentUpload  = "document_uploaded"
	CaseLogDocumentDeleted = "document_deleted"
)

// CaseLog is an immutable audit entry recorded against a case.
// Entries are append-only: every status change and assignment writes
// exactly one entry in the same transaction as the mutation.
type CaseLog struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_caselog_created" json:"created_at"`

	CaseID    string `gorm:"type:uuid;not null;index" json:"case_id"`
	EventType string `gorm:"not null;index" json:"event_type"`

	// Old/new value pair for status_change and assignment events
	OldValue *string `json:"old_value,omitempty"`
	NewValue *string `json:"new_value,omitempty"`

	// Free-text comment for note events
	Comment *string `gorm:"type:text" json:"comment,omitempty"`

	// Author identification (denormalized name for historical accuracy)
	AuthorID   string `gorm:"type:uuid;not null;index" json:"author_id"`
	AuthorName string `json:"author_name,omitempty"`

	Author *User `gorm:"foreignKey:AuthorID" json:"-"`
}

// BeforeCreate generates UUID
func (l *CaseLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// BeforeUpdate prevents modification of log entries (immutability)
func (l *CaseLog) BeforeUpdate(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound
}

// BeforeDelete prevents deletion of log entries
func (l *CaseLog) BeforeDelete(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound
}

// TableName specifies the table name for CaseLog model
func (CaseLog) TableName() string {
	return "case_logs"
}

// IsValidCaseLogEvent checks if the event type is valid
func IsValidCaseLogEvent(eventType string) bool {
	switch eventType {
	case CaseLogCreated, CaseLogUpdated, CaseLogStatusChange,
		CaseLogAssignment, CaseLogNote, CaseLogDocumentUpload, CaseLogDocumentDeleted:
		return true
	}
	return false
}
