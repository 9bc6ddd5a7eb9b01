package services

import (
	"testing"

	"legal_connect_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCaseTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Case{},
		&models.CaseLog{},
		&models.Plan{},
		&models.UserSubscription{},
	)
	assert.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	user := &models.User{
		Name:     "Test " + role,
		Email:    role + "-" + t.Name() + "@example.com",
		Password: "hashed",
		Role:     role,
		IsActive: true,
	}
	assert.NoError(t, db.Create(user).Error)
	return user
}

func stringPtr(s string) *string {
	return &s
}

func TestCreateCase_StartsInDraftWithCreatedLog(t *testing.T) {
	db := setupCaseTestDB(t)
	owner := createTestUser(t, db, models.RoleStudent)

	caseRecord, err := CreateCase(db, CreateCaseParams{
		Title:       "Deposit dispute",
		Description: "Landlord refuses to return deposit",
	}, owner)
	assert.NoError(t, err)
	assert.Equal(t, models.CaseStatusDraft, caseRecord.Status)
	assert.Equal(t, models.CasePriorityMedium, caseRecord.Priority)

	var logs []models.CaseLog
	assert.NoError(t, db.Where("case_id = ?", caseRecord.ID).Find(&logs).Error)
	assert.Len(t, logs, 1)
	assert.Equal(t, models.CaseLogCreated, logs[0].EventType)
	assert.Equal(t, owner.ID, logs[0].AuthorID)
}

func TestCreateCase_InvalidPriority(t *testing.T) {
	db := setupCaseTestDB(t)
	owner := createTestUser(t, db, models.RoleStudent)

	_, err := CreateCase(db, CreateCaseParams{
		Title:       "Case",
		Description: "Description",
		Priority:    "extreme",
	}, owner)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid priority")
}

func TestChangeCaseStatus_AllowedPath(t *testing.T) {
	db := setupCaseTestDB(t)
	owner := createTestUser(t, db, models.RoleStudent)

	caseRecord, err := CreateCase(db, CreateCaseParams{Title: "Case", Description: "Desc"}, owner)
	assert.NoError(t, err)

	path := []string{
		models.CaseStatusSubmitted,
		models.CaseStatusUnderReview,
		models.CaseStatusHearingScheduled,
		models.CaseStatusResolved,
	}
	for _, target := range path {
		assert.NoError(t, ChangeCaseStatus(db, caseRecord, target, owner))
		assert.Equal(t, target, caseRecord.Status)
	}

	// One status_change entry per transition, with matching old/new values
	var logs []models.CaseLog
	err = db.Where("case_id = ? AND event_type = ?", caseRecord.ID, models.CaseLogStatusChange).
		Order("created_at ASC").Find(&logs).Error
	assert.NoError(t, err)
	assert.Len(t, logs, len(path))

	previous := models.CaseStatusDraft
	for i, entry := range logs {
		assert.Equal(t, previous, *entry.OldValue)
		assert.Equal(t, path[i], *entry.NewValue)
		previous = path[i]
	}
}

func TestChangeCaseStatus_RejectedTransitionMutatesNothing(t *testing.T) {
	db := setupCaseTestDB(t)
	owner := createTestUser(t, db, models.RoleStudent)

	caseRecord, err := CreateCase(db, CreateCaseParams{Title: "Case", Description: "Desc"}, owner)
	assert.NoError(t, err)

	// draft cannot jump straight to resolved
	err = ChangeCaseStatus(db, caseRecord, models.CaseStatusResolved, owner)
	var transitionErr *TransitionError
	assert.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, models.CaseStatusDraft, transitionErr.From)
	assert.Equal(t, models.CaseStatusResolved, transitionErr.To)

	var stored models.Case
	assert.NoError(t, db.First(&stored, "id = ?", caseRecord.ID).Error)
	assert.Equal(t, models.CaseStatusDraft, stored.Status)

	var count int64
	db.Model(&models.CaseLog{}).
		Where("case_id = ? AND event_type = ?", caseRecord.ID, models.CaseLogStatusChange).
		Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestChangeCaseStatus_TerminalOffersNothing(t *testing.T) {
	db := setupCaseTestDB(t)
	owner := createTestUser(t, db, models.RoleStudent)

	for _, terminal := range []string{models.CaseStatusResolved, models.CaseStatusCancelled} {
		caseRecord := &models.Case{
			Title:       "Terminal case",
			Description: "Desc",
			Status:      terminal,
			OwnerID:     owner.ID,
		}
		assert.NoError(t, db.Create(caseRecord).Error)

		assert.Empty(t, caseRecord.AllowedTransitions())

		for _, target := range []string{
			models.CaseStatusDraft,
			models.CaseStatusSubmitted,
			models.CaseStatusUnderReview,
			models.CaseStatusHearingScheduled,
			models.CaseStatusResolved,
			models.CaseStatusCancelled,
		} {
			err := ChangeCaseStatus(db, caseRecord, target, owner)
			assert.ErrorIs(t, err, ErrTerminalCase)
		}
	}
}

func TestChangeCaseStatus_CancelledReachableFromAnyNonTerminal(t *testing.T) {
	db := setupCaseTestDB(t)
	owner := createTestUser(t, db, models.RoleStudent)

	for _, from := range []string{
		models.CaseStatusDraft,
		models.CaseStatusSubmitted,
		models.CaseStatusUnderReview,
		models.CaseStatusHearingScheduled,
	} {
		caseRecord := &models.Case{
			Title:       "Case",
			Description: "Desc",
			Status:      from,
			OwnerID:     owner.ID,
		}
		assert.NoError(t, db.Create(caseRecord).Error)

		err := ChangeCaseStatus(db, caseRecord, models.CaseStatusCancelled, owner)
		assert.NoError(t, err)
		assert.Equal(t, models.CaseStatusCancelled, caseRecord.Status)
	}
}

func TestChangeCaseStatus_UnknownStatus(t *testing.T) {
	db := setupCaseTestDB(t)
	owner := createTestUser(t, db, models.RoleStudent)

	caseRecord, err := CreateCase(db, CreateCaseParams{Title: "Case", Description: "Desc"}, owner)
	assert.NoError(t, err)

	err = ChangeCaseStatus(db, caseRecord, "archived", owner)
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestChangeCaseStatus_ConcurrentGuard(t *testing.T) {
	db := setupCaseTestDB(t)
	owner := createTestUser(t, db, models.RoleStudent)

	caseRecord, err := CreateCase(db, CreateCaseParams{Title: "Case", Description: "Desc"}, owner)
	assert.NoError(t, err)

	// Simulate another request committing a transition after our read
	stale := *caseRecord
	assert.NoError(t, ChangeCaseStatus(db, caseRecord, models.CaseStatusSubmitted, owner))

	err = ChangeCaseStatus(db, &stale, models.CaseStatusCancelled, owner)
	var transitionErr *TransitionError
	assert.ErrorAs(t, err, &transitionErr)

	// Only the first transition is on record
	var count int64
	db.Model(&models.CaseLog{}).
		Where("case_id = ? AND event_type = ?", caseRecord.ID, models.CaseLogStatusChange).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAssignCase_WritesOneAssignmentLog(t *testing.T) {
	db := setupCaseTestDB(t)
	owner := createTestUser(t, db, models.RoleStudent)
	lawyer := createTestUser(t, db, models.RoleLawyer)
	admin := createTestUser(t, db, models.RoleAdmin)

	caseRecord, err := CreateCase(db, CreateCaseParams{Title: "Case", Description: "Desc"}, owner)
	assert.NoError(t, err)

	assert.NoError(t, AssignCase(db, caseRecord, lawyer, admin))
	assert.Equal(t, lawyer.ID, *caseRecord.AssignedToID)

	var logs []models.CaseLog
	err = db.Where("case_id = ? AND event_type = ?", caseRecord.ID, models.CaseLogAssignment).
		Find(&logs).Error
	assert.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.Nil(t, logs[0].OldValue)
	assert.Equal(t, lawyer.ID, *logs[0].NewValue)
	assert.Equal(t, admin.ID, logs[0].AuthorID)
}

func TestAssignCase_TerminalRejected(t *testing.T) {
	db := setupCaseTestDB(t)
	owner := createTestUser(t, db, models.RoleStudent)
	lawyer := createTestUser(t, db, models.RoleLawyer)

	caseRecord := &models.Case{
		Title:       "Done",
		Description: "Desc",
		Status:      models.CaseStatusResolved,
		OwnerID:     owner.ID,
	}
	assert.NoError(t, db.Create(caseRecord).Error)

	err := AssignCase(db, caseRecord, lawyer, lawyer)
	assert.ErrorIs(t, err, ErrTerminalCase)
}

func TestAddCaseNote_SanitizesAndRequiresContent(t *testing.T) {
	db := setupCaseTestDB(t)
	owner := createTestUser(t, db, models.RoleStudent)

	caseRecord, err := CreateCase(db, CreateCaseParams{Title: "Case", Description: "Desc"}, owner)
	assert.NoError(t, err)

	entry, err := AddCaseNote(db, caseRecord, "<script>alert(1)</script>Hearing moved", owner)
	assert.NoError(t, err)
	assert.NotContains(t, *entry.Comment, "<script>")
	assert.Contains(t, *entry.Comment, "Hearing moved")

	_, err = AddCaseNote(db, caseRecord, "<script></script>", owner)
	assert.Error(t, err)
}

func TestCaseLog_AppendOnly(t *testing.T) {
	db := setupCaseTestDB(t)
	owner := createTestUser(t, db, models.RoleStudent)

	caseRecord, err := CreateCase(db, CreateCaseParams{Title: "Case", Description: "Desc"}, owner)
	assert.NoError(t, err)

	var entry models.CaseLog
	assert.NoError(t, db.Where("case_id = ?", caseRecord.ID).First(&entry).Error)

	err = db.Model(&entry).Update("comment", "rewritten").Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = db.Delete(&entry).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	db.Model(&models.CaseLog{}).Where("case_id = ?", caseRecord.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCanAccessCase(t *testing.T) {
	owner := &models.User{ID: "owner-id", Role: models.RoleStudent}
	lawyer := &models.User{ID: "lawyer-id", Role: models.RoleLawyer}
	admin := &models.User{ID: "admin-id", Role: models.RoleAdmin}
	stranger := &models.User{ID: "other-id", Role: models.RoleStudent}

	caseRecord := &models.Case{OwnerID: owner.ID, AssignedToID: stringPtr(lawyer.ID)}

	assert.True(t, CanAccessCase(caseRecord, owner))
	assert.True(t, CanAccessCase(caseRecord, lawyer))
	assert.True(t, CanAccessCase(caseRecord, admin))
	assert.False(t, CanAccessCase(caseRecord, stranger))
	assert.False(t, CanAccessCase(caseRecord, nil))
}
