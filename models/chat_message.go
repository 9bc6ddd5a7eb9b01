package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat message role constants
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage records one exchange in an AI consultation about a university
type ChatMessage struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	UserID       string `gorm:"type:uuid;not null;index:idx_chat_user_day" json:"user_id"`
	UniversityID string `gorm:"type:uuid;not null;index" json:"university_id"`

	Role    string `gorm:"not null" json:"role"` // user, assistant
	Content string `gorm:"type:text;not null" json:"content"`
}

// BeforeCreate hook to generate UUID
func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for ChatMessage model
func (ChatMessage) TableName() string {
	return "chat_messages"
}
