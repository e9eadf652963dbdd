package models

import (
	"time"
)

// Message represents a message sent inside a conversation
type Message struct {
	BaseModel
	ConversationID string     `gorm:"size:36;not null;index" json:"conversationId" validate:"required,uuid"`
	SenderID       string     `gorm:"size:36;not null;index" json:"senderId" validate:"required,uuid"`
	Content        string     `gorm:"type:text;not null" json:"content" validate:"required,max=5000"`
	IsRead         bool       `gorm:"not null;default:false;index" json:"isRead"`
	ReadAt         *time.Time `json:"readAt"`

	// Relations
	Conversation *Conversation `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
}
