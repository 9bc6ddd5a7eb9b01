package services

import (
	"errors"
	"fmt"

	"legal_connect_go/models"

	"gorm.io/gorm"
)

// ErrAlreadySubscribed signals an attempt to subscribe while an active subscription exists
var ErrAlreadySubscribed = errors.New("subscription: an active subscription already exists")

// GetActiveSubscription returns the user's active subscription with its
// plan preloaded, or nil when the user is on no plan (treated as free).
func GetActiveSubscription(db *gorm.DB, userID string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := db.Preload("Plan").
		Where("user_id = ? AND status = ?", userID, models.SubscriptionActive).
		Order("started_at DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("subscription: fetch active: %w", err)
	}
	if !sub.IsActive() {
		return nil, nil
	}
	return &sub, nil
}

// CanCreateCase checks the owner's plan limit against their count of
// non-terminal cases. Users without a subscription fall back to the
// free plan limit.
func CanCreateCase(db *gorm.DB, userID string) (bool, error) {
	maxCases, err := activeCaseLimit(db, userID)
	if err != nil {
		return false, err
	}
	if maxCases == 0 {
		return true, nil // unlimited
	}

	var count int64
	err = db.Model(&models.Case{}).
		Where("owner_id = ?", userID).
		Where("status NOT IN (?, ?)", models.CaseStatusResolved, models.CaseStatusCancelled).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("subscription: count active cases: %w", err)
	}

	return count < int64(maxCases), nil
}

func activeCaseLimit(db *gorm.DB, userID string) (int, error) {
	sub, err := GetActiveSubscription(db, userID)
	if err != nil {
		return 0, err
	}
	if sub != nil && sub.Plan != nil {
		return sub.Plan.MaxActiveCases, nil
	}

	var free models.Plan
	err = db.Where("slug = ?", models.PlanFree).First(&free).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil // no plans seeded, no limit enforced
	}
	if err != nil {
		return 0, fmt.Errorf("subscription: fetch free plan: %w", err)
	}
	return free.MaxActiveCases, nil
}

// Subscribe puts the user on the given plan. Rejected when an active
// subscription already exists.
func Subscribe(db *gorm.DB, user *models.User, plan *models.Plan) (*models.UserSubscription, error) {
	existing, err := GetActiveSubscription(db, user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadySubscribed
	}

	sub := &models.UserSubscription{
		UserID: user.ID,
		PlanID: plan.ID,
		Status: models.SubscriptionActive,
	}
	if err := db.Create(sub).Error; err != nil {
		return nil, fmt.Errorf("subscription: create: %w", err)
	}
	sub.Plan = plan
	return sub, nil
}

// SeedPlans inserts the default plans if none exist
func SeedPlans(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Plan{}).Count(&count).Error; err != nil {
		return fmt.Errorf("subscription: count plans: %w", err)
	}
	if count > 0 {
		return nil
	}

	plans := []models.Plan{
		{Slug: models.PlanFree, Name: "Free", MonthlyPrice: 0, MaxActiveCases: 3, MaxChatMessages: 20},
		{Slug: models.PlanPremium, Name: "Premium", MonthlyPrice: 9.99, MaxActiveCases: 0, MaxChatMessages: 0},
	}
	if err := db.Create(&plans).Error; err != nil {
		return fmt.Errorf("subscription: seed plans: %w", err)
	}
	return nil
}
