package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"adoption-chat-server/internal/models"
)

// TypingService records "is typing" signals. Nothing ever clears a stale
// signal; readers apply IsTypingActive instead.
type TypingService struct {
	db   *gorm.DB
	opts Options
}

// NewTypingService creates a new TypingService.
func NewTypingService(db *gorm.DB, opts Options) *TypingService {
	return &TypingService{db: db, opts: opts.withDefaults()}
}

// SetTyping stores userID's typing flag. The timestamp only moves when isTyping is true.
func (s *TypingService) SetTyping(ctx context.Context, conversationID, userID string, isTyping bool) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conv, side, err := loadConversation(tx, conversationID, userID, true)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{side.Column("is_typing"): isTyping}
		if isTyping {
			updates[side.Column("last_typing_at")] = s.opts.Now()
		}
		if err := tx.Model(&models.Conversation{}).Where("id = ?", conv.ID).Updates(updates).Error; err != nil {
			return internalError("failed to update typing status", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.opts.Logger.Debug("set typing status",
		"conversation_id", conversationID, "user_id", userID, "is_typing", isTyping)
	return nil
}

// IsTypingActive is true when the flag is set and lastTypingAt is less than window before now.
func IsTypingActive(isTyping bool, lastTypingAt *time.Time, now time.Time, window time.Duration) bool {
	if !isTyping || lastTypingAt == nil {
		return false
	}
	return now.Sub(*lastTypingAt) < window
}
