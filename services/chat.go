package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"legal_connect_go/config"
	"legal_connect_go/models"

	"gorm.io/gorm"
)

var (
	// ErrChatNotConfigured signals a missing AI upstream configuration
	ErrChatNotConfigured = errors.New("chat: AI upstream is not configured")
	// ErrChatLimitReached signals the user's daily chat message quota is spent
	ErrChatLimitReached = errors.New("chat: daily message limit reached for current plan")
)

// ChatUpstreamError carries the AI upstream's own error detail so it
// can be surfaced verbatim, never replaced with a synthesized answer.
type ChatUpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *ChatUpstreamError) Error() string {
	return fmt.Sprintf("chat: upstream returned %d: %s", e.StatusCode, e.Detail)
}

var chatHTTPClient = &http.Client{Timeout: 60 * time.Second}

type chatUpstreamRequest struct {
	Model   string `json:"model"`
	Context string `json:"context"`
	Message string `json:"message"`
}

type chatUpstreamResponse struct {
	Reply  string `json:"reply"`
	Detail string `json:"detail,omitempty"`
}

// SendConsultationMessage proxies a student's question about a
// university to the configured AI endpoint and persists both sides of
// the exchange. The upstream reply is returned verbatim.
func SendConsultationMessage(ctx context.Context, db *gorm.DB, cfg *config.Config, user *models.User, university *models.University, message string) (string, error) {
	if cfg.AIChatURL == "" {
		return "", ErrChatNotConfigured
	}

	clean := SanitizeText(message)
	if clean == "" {
		return "", fmt.Errorf("chat: message is required")
	}

	allowed, err := canSendChatMessage(db, user.ID)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", ErrChatLimitReached
	}

	payload := chatUpstreamRequest{
		Model:   cfg.AIChatModel,
		Context: fmt.Sprintf("University: %s (%s, %s). %s", university.Name, university.City, university.Country, university.Description),
		Message: clean,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("chat: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.AIChatURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("chat: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.AIChatAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.AIChatAPIKey)
	}

	resp, err := chatHTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat: call upstream: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("chat: read upstream response: %w", err)
	}

	var parsed chatUpstreamResponse
	if err := json.Unmarshal(raw, &parsed); err != nil && resp.StatusCode < 300 {
		return "", fmt.Errorf("chat: decode upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := parsed.Detail
		if detail == "" {
			detail = string(raw)
		}
		return "", &ChatUpstreamError{StatusCode: resp.StatusCode, Detail: detail}
	}

	exchange := []models.ChatMessage{
		{UserID: user.ID, UniversityID: university.ID, Role: models.ChatRoleUser, Content: clean},
		{UserID: user.ID, UniversityID: university.ID, Role: models.ChatRoleAssistant, Content: parsed.Reply},
	}
	if err := db.Create(&exchange).Error; err != nil {
		return "", fmt.Errorf("chat: persist exchange: %w", err)
	}

	return parsed.Reply, nil
}

// CleanupOldChatMessages removes consultation history older than the
// retention window. Called from the hourly background job.
func CleanupOldChatMessages(db *gorm.DB) error {
	cutoff := time.Now().AddDate(0, -3, 0)
	result := db.Unscoped().Where("created_at < ?", cutoff).Delete(&models.ChatMessage{})
	if result.Error != nil {
		return fmt.Errorf("chat: cleanup: %w", result.Error)
	}
	return nil
}

// canSendChatMessage checks today's user message count against the plan quota
func canSendChatMessage(db *gorm.DB, userID string) (bool, error) {
	sub, err := GetActiveSubscription(db, userID)
	if err != nil {
		return false, err
	}

	limit := 0
	if sub != nil && sub.Plan != nil {
		limit = sub.Plan.MaxChatMessages
	} else {
		var free models.Plan
		err := db.Where("slug = ?", models.PlanFree).First(&free).Error
		if err == nil {
			limit = free.MaxChatMessages
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("chat: fetch free plan: %w", err)
		}
	}
	if limit == 0 {
		return true, nil // unlimited
	}

	// Midnight in server time, not UTC
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var count int64
	err = db.Model(&models.ChatMessage{}).
		Where("user_id = ? AND role = ? AND created_at >= ?", userID, models.ChatRoleUser, startOfDay).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("chat: count messages: %w", err)
	}

	return count < int64(limit), nil
}
