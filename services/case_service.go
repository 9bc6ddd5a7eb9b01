package services

import (
	"errors"
	"fmt"
	"time"

	"legal_connect_go/models"

	"gorm.io/gorm"
)

var (
	// ErrUnknownStatus signals a target status outside the known set
	ErrUnknownStatus = errors.New("case: unknown status")
	// ErrTerminalCase signals a transition attempted on a resolved or cancelled case
	ErrTerminalCase = errors.New("case: no transitions allowed from a terminal status")
	// ErrCaseLimitReached signals the owner's plan does not allow another active case
	ErrCaseLimitReached = errors.New("case: active case limit reached for current plan")
)

// TransitionError carries the rejected from/to pair so handlers can
// surface the server's own message verbatim.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("case: transition %s -> %s is not allowed", e.From, e.To)
}

// CreateCaseParams holds the fields accepted at case creation
type CreateCaseParams struct {
	Title        string
	Description  string
	Priority     string
	Deadline     *time.Time
	ClaimAmount  *float64
	ContactName  *string
	ContactPhone *string
	ContactEmail *string
}

// CreateCase creates a case in draft for the owner and writes the
// corresponding "created" log entry in the same transaction.
func CreateCase(db *gorm.DB, params CreateCaseParams, owner *models.User) (*models.Case, error) {
	allowed, err := CanCreateCase(db, owner.ID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrCaseLimitReached
	}

	priority := params.Priority
	if priority == "" {
		priority = models.CasePriorityMedium
	}
	if !models.IsValidCasePriority(priority) {
		return nil, fmt.Errorf("case: invalid priority %q", priority)
	}

	caseRecord := &models.Case{
		Title:        SanitizeText(params.Title),
		Description:  SanitizeText(params.Description),
		Status:       models.CaseStatusDraft,
		Priority:     priority,
		Deadline:     params.Deadline,
		ClaimAmount:  params.ClaimAmount,
		ContactName:  params.ContactName,
		ContactPhone: params.ContactPhone,
		ContactEmail: params.ContactEmail,
		OwnerID:      owner.ID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(caseRecord).Error; err != nil {
			return fmt.Errorf("case: create: %w", err)
		}
		newStatus := caseRecord.Status
		return AppendCaseLog(tx, caseRecord.ID, models.CaseLogCreated, owner, nil, &newStatus, nil)
	})
	if err != nil {
		return nil, err
	}
	return caseRecord, nil
}

// ChangeCaseStatus moves the case to the target status if the
// transition table allows it. The status update and its single
// status_change log entry commit atomically; a rejected transition
// mutates nothing and writes nothing.
func ChangeCaseStatus(db *gorm.DB, caseRecord *models.Case, target string, actor *models.User) error {
	if !models.IsValidCaseStatus(target) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, target)
	}
	if caseRecord.IsTerminal() {
		return ErrTerminalCase
	}
	if !caseRecord.CanTransitionTo(target) {
		return &TransitionError{From: caseRecord.Status, To: target}
	}

	oldStatus := caseRecord.Status
	now := time.Now()

	return db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":            target,
			"status_changed_at": now,
			"status_changed_by": actor.ID,
		}
		// Guard against a concurrent transition committed between read and write
		result := tx.Model(&models.Case{}).
			Where("id = ? AND status = ?", caseRecord.ID, oldStatus).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("case: update status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return &TransitionError{From: oldStatus, To: target}
		}

		if err := AppendCaseLog(tx, caseRecord.ID, models.CaseLogStatusChange, actor, &oldStatus, &target, nil); err != nil {
			return err
		}

		caseRecord.Status = target
		caseRecord.StatusChangedAt = &now
		caseRecord.StatusChangedBy = &actor.ID
		return nil
	})
}

// AssignCase assigns a verified lawyer to the case and writes exactly
// one assignment log entry in the same transaction.
func AssignCase(db *gorm.DB, caseRecord *models.Case, lawyer *models.User, actor *models.User) error {
	if caseRecord.IsTerminal() {
		return ErrTerminalCase
	}

	oldAssignee := caseRecord.AssignedToID

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Case{}).
			Where("id = ?", caseRecord.ID).
			Update("assigned_to_id", lawyer.ID).Error; err != nil {
			return fmt.Errorf("case: assign: %w", err)
		}

		if err := AppendCaseLog(tx, caseRecord.ID, models.CaseLogAssignment, actor, oldAssignee, &lawyer.ID, nil); err != nil {
			return err
		}

		caseRecord.AssignedToID = &lawyer.ID
		return nil
	})
}

// AddCaseNote appends a note log entry to the case
func AddCaseNote(db *gorm.DB, caseRecord *models.Case, comment string, actor *models.User) (*models.CaseLog, error) {
	clean := SanitizeText(comment)
	if clean == "" {
		return nil, fmt.Errorf("case: note comment is required")
	}

	entry := &models.CaseLog{
		CaseID:     caseRecord.ID,
		EventType:  models.CaseLogNote,
		Comment:    &clean,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
	}
	if err := db.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("case: add note: %w", err)
	}
	return entry, nil
}

// AppendCaseLog writes one audit entry against a case. Callers pass
// the transaction handle when the entry must commit with a mutation.
func AppendCaseLog(tx *gorm.DB, caseID, eventType string, actor *models.User, oldValue, newValue, comment *string) error {
	if !models.IsValidCaseLogEvent(eventType) {
		return fmt.Errorf("case: invalid log event type %q", eventType)
	}

	entry := &models.CaseLog{
		CaseID:     caseID,
		EventType:  eventType,
		OldValue:   oldValue,
		NewValue:   newValue,
		Comment:    comment,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
	}
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("case: append log: %w", err)
	}
	return nil
}

// GetCaseLogs returns the audit trail in chronological order
func GetCaseLogs(db *gorm.DB, caseID string) ([]models.CaseLog, error) {
	var logs []models.CaseLog
	err := db.Where("case_id = ?", caseID).
		Order("created_at ASC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("case: fetch logs: %w", err)
	}
	return logs, nil
}

// CanAccessCase reports whether the user may read or act on the case.
// Owners, the assigned lawyer, and admins qualify.
func CanAccessCase(caseRecord *models.Case, user *models.User) bool {
	if user == nil {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	if caseRecord.OwnerID == user.ID {
		return true
	}
	return caseRecord.AssignedToID != nil && *caseRecord.AssignedToID == user.ID
}
