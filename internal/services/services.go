// Package services implements the conversation lifecycle, messaging, typing
// and query operations on top of a gorm store.
package services

import (
	"io"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"adoption-chat-server/internal/models"
)

// DefaultTypingWindow is how long a stored "is typing" signal stays active.
const DefaultTypingWindow = 10 * time.Second

// Options are shared by all services.
type Options struct {
	// Now returns the current time; defaults to time.Now in UTC.
	Now func() time.Time
	// TypingWindow defaults to DefaultTypingWindow.
	TypingWindow time.Duration
	Logger       *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = func() time.Time { return time.Now().UTC() }
	}
	if o.TypingWindow <= 0 {
		o.TypingWindow = DefaultTypingWindow
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Services bundles the components the HTTP layer depends on.
type Services struct {
	Lifecycle *LifecycleService
	Messaging *MessagingService
	Typing    *TypingService
	Query     *QueryService
}

// New builds every service on the same store.
func New(db *gorm.DB, opts Options) *Services {
	return &Services{
		Lifecycle: NewLifecycleService(db, opts),
		Messaging: NewMessagingService(db, opts),
		Typing:    NewTypingService(db, opts),
		Query:     NewQueryService(db, opts),
	}
}

var recordValidator = validator.New()

// validateRecord checks a row read from or written to the store against its
// struct tags. A failure means the schema and the code disagree.
func validateRecord(record interface{}) error {
	if err := recordValidator.Struct(record); err != nil {
		return &Error{Kind: KindValidation, Message: "stored record failed validation", Cause: err}
	}
	return nil
}

// loadConversation fetches a conversation and resolves the caller's side.
// With lock set the row is held FOR UPDATE until tx ends.
func loadConversation(tx *gorm.DB, conversationID, userID string, lock bool) (*models.Conversation, models.Side, error) {
	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var conv models.Conversation
	if err := q.Where("id = ?", conversationID).Take(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrConversationNotFound
		}
		return nil, "", internalError("failed to load conversation", err)
	}

	side, ok := conv.SideOf(userID)
	if !ok {
		return nil, "", ErrNotParticipant
	}
	return &conv, side, nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
