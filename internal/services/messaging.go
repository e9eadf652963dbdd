package services

import (
	"context"

	"gorm.io/gorm"

	"adoption-chat-server/internal/models"
)

// MessagingService sends messages and tracks their read state.
type MessagingService struct {
	db   *gorm.DB
	opts Options
}

// NewMessagingService creates a new MessagingService.
func NewMessagingService(db *gorm.DB, opts Options) *MessagingService {
	return &MessagingService{db: db, opts: opts.withDefaults()}
}

// SendMessage stores a message from senderID and updates the conversation's
// activity. Both participants' delete markers are cleared so the conversation
// reappears for anyone who had hidden it.
func (s *MessagingService) SendMessage(ctx context.Context, conversationID, senderID, content string) (*models.Message, error) {
	var message *models.Message

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conv, side, err := loadConversation(tx, conversationID, senderID, true)
		if err != nil {
			return err
		}

		now := s.opts.Now()
		msg := &models.Message{
			BaseModel:      models.BaseModel{CreatedAt: now},
			ConversationID: conv.ID,
			SenderID:       senderID,
			Content:        content,
			IsRead:         false,
		}
		if err := tx.Create(msg).Error; err != nil {
			return internalError("failed to save message", err)
		}

		updates := map[string]interface{}{"last_message_at": now}
		updates[side.Column("last_active_at")] = now
		updates[models.SideAdopter.Column("deleted_at")] = nil
		updates[models.SideRehomer.Column("deleted_at")] = nil
		if err := tx.Model(&models.Conversation{}).Where("id = ?", conv.ID).Updates(updates).Error; err != nil {
			return internalError("failed to update conversation", err)
		}

		message = msg
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := validateRecord(message); err != nil {
		return nil, err
	}
	s.opts.Logger.Info("sent message",
		"conversation_id", conversationID, "message_id", message.ID, "sender_id", senderID)
	return message, nil
}

// MarkAsRead marks every unread message from the other participant as read and
// records when userID last read the conversation. It returns the number of
// messages that changed; zero is not an error.
func (s *MessagingService) MarkAsRead(ctx context.Context, conversationID, userID string) (int64, error) {
	var updated int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conv, side, err := loadConversation(tx, conversationID, userID, true)
		if err != nil {
			return err
		}

		now := s.opts.Now()
		if err := tx.Model(&models.Conversation{}).
			Where("id = ?", conv.ID).
			Update(side.Column("last_read_at"), now).Error; err != nil {
			return internalError("failed to update read marker", err)
		}

		res := tx.Model(&models.Message{}).
			Where("conversation_id = ? AND sender_id = ? AND is_read = ?", conv.ID, conv.ParticipantID(side.Other()), false).
			Updates(map[string]interface{}{"is_read": true, "read_at": now})
		if res.Error != nil {
			return internalError("failed to mark messages as read", res.Error)
		}
		updated = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.opts.Logger.Info("marked messages as read",
		"conversation_id", conversationID, "user_id", userID, "count", updated)
	return updated, nil
}

// GetUnreadCount counts unread messages sent to userID across all of their conversations.
func (s *MessagingService) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("(conversations.adopter_id = ? OR conversations.rehomer_id = ?)", userID, userID).
		Where("messages.sender_id <> ? AND messages.is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, internalError("failed to count unread messages", err)
	}
	return count, nil
}
