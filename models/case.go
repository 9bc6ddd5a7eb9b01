package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case status constants
const (
	CaseStatusDraft            = "draft"
	CaseStatusSubmitted        = "submitted"
	CaseStatusUnderReview      = "under_review"
	CaseStatusHearingScheduled = "hearing_scheduled"
	CaseStatusResolved         = "resolved"
	CaseStatusCancelled        = "cancelled"
)

// Case priority constants
const (
	CasePriorityLow    = "low"
	CasePriorityMedium = "medium"
	CasePriorityHigh   = "high"
	CasePriorityUrgent = "urgent"
)

// caseTransitions maps each status to the statuses it may move to.
// resolved and cancelled are terminal; cancelled is reachable from any
// non-terminal state.
var caseTransitions = map[string][]string{
	CaseStatusDraft:            {CaseStatusSubmitted, CaseStatusCancelled},
	CaseStatusSubmitted:        {CaseStatusUnderReview, CaseStatusCancelled},
	CaseStatusUnderReview:      {CaseStatusHearingScheduled, CaseStatusResolved, CaseStatusCancelled},
	CaseStatusHearingScheduled: {CaseStatusResolved, CaseStatusCancelled},
	CaseStatusResolved:         {},
	CaseStatusCancelled:        {},
}

// Case represents a legal matter tracked by a client and optionally a lawyer
type Case struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`

	// Status and lifecycle
	Status          string     `gorm:"not null;default:draft;index:idx_case_owner_status" json:"status"`
	Priority        string     `gorm:"not null;default:medium" json:"priority"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	ClaimAmount     *float64   `json:"claim_amount,omitempty"`
	StatusChangedAt *time.Time `json:"status_changed_at,omitempty"`
	StatusChangedBy *string    `gorm:"type:uuid" json:"status_changed_by,omitempty"`

	// Optional client contact fields
	ContactName  *string `json:"contact_name,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`

	// Ownership and assignment
	OwnerID      string  `gorm:"type:uuid;not null;index:idx_case_owner_status" json:"owner_id"`
	Owner        User    `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	AssignedToID *string `gorm:"type:uuid;index" json:"assigned_to_id,omitempty"`
	AssignedTo   *User   `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`

	// Relationships
	Documents []CaseDocument `gorm:"foreignKey:CaseID" json:"documents,omitempty"`
	Logs      []CaseLog      `gorm:"foreignKey:CaseID" json:"logs,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *Case) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = CaseStatusDraft
	}
	return nil
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}

// AllowedTransitions returns the statuses this case may legally move to.
// The returned slice is a copy; callers may not mutate the table.
func (c *Case) AllowedTransitions() []string {
	next, ok := caseTransitions[c.Status]
	if !ok {
		return []string{}
	}
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether the case may move to the target status
func (c *Case) CanTransitionTo(target string) bool {
	for _, s := range c.AllowedTransitions() {
		if s == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the case has reached a final status
func (c *Case) IsTerminal() bool {
	return c.Status == CaseStatusResolved || c.Status == CaseStatusCancelled
}

// IsValidCaseStatus checks if the status is valid
func IsValidCaseStatus(status string) bool {
	_, ok := caseTransitions[status]
	return ok
}

// IsValidCasePriority checks if the priority is valid
func IsValidCasePriority(priority string) bool {
	switch priority {
	case CasePriorityLow, CasePriorityMedium, CasePriorityHigh, CasePriorityUrgent:
		return true
	}
	return false
}
