package services

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"adoption-chat-server/internal/models"
)

// DeleteResult reports what a Delete call did.
type DeleteResult struct {
	Deleted     bool `json:"deleted"`
	HardDeleted bool `json:"hardDeleted"`
}

// LifecycleService creates conversations and runs the two-sided delete protocol.
type LifecycleService struct {
	db   *gorm.DB
	opts Options
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(db *gorm.DB, opts Options) *LifecycleService {
	return &LifecycleService{db: db, opts: opts.withDefaults()}
}

// CreateOrGet returns the conversation for (adopterID, rehomerID, animalID),
// creating it if it does not exist. An empty animalID means no animal.
func (s *LifecycleService) CreateOrGet(ctx context.Context, adopterID, rehomerID, animalID string) (*models.Conversation, error) {
	var animal *string
	if animalID != "" {
		animal = &animalID
	}
	db := s.db.WithContext(ctx)

	existing, err := findByKey(db, adopterID, rehomerID, animal)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := validateRecord(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	now := s.opts.Now()
	conv := &models.Conversation{
		BaseModel:           models.BaseModel{CreatedAt: now},
		AdopterID:           adopterID,
		RehomerID:           rehomerID,
		AnimalID:            animal,
		AdopterLastActiveAt: timePtr(now),
		RehomerLastActiveAt: timePtr(now),
	}

	if err := db.Create(conv).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, internalError("failed to create conversation", err)
		}
		// Lost a race against a concurrent creator of the same key
		existing, findErr := findByKey(db, adopterID, rehomerID, animal)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, &Error{Kind: KindConflict, Message: "conversation already exists", Cause: err}
		}
		conv = existing
	} else {
		s.opts.Logger.Info("created conversation",
			"conversation_id", conv.ID, "adopter_id", adopterID, "rehomer_id", rehomerID)
	}

	if err := validateRecord(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func findByKey(db *gorm.DB, adopterID, rehomerID string, animalID *string) (*models.Conversation, error) {
	q := db.Where("adopter_id = ? AND rehomer_id = ?", adopterID, rehomerID)
	if animalID == nil {
		q = q.Where("animal_id IS NULL")
	} else {
		q = q.Where("animal_id = ?", *animalID)
	}

	var conv models.Conversation
	if err := q.Take(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, internalError("failed to look up conversation", err)
	}
	return &conv, nil
}

// Delete hides the conversation for userID. When the other participant has
// already hidden it, the conversation and its messages are removed instead.
func (s *LifecycleService) Delete(ctx context.Context, conversationID, userID string) (DeleteResult, error) {
	var result DeleteResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conv, side, err := loadConversation(tx, conversationID, userID, true)
		if err != nil {
			return err
		}

		other := side.Other()
		if conv.DeletedAt(other) == nil {
			if err := tx.Model(&models.Conversation{}).
				Where("id = ?", conv.ID).
				Update(side.Column("deleted_at"), s.opts.Now()).Error; err != nil {
				return internalError("failed to soft delete conversation", err)
			}
			result = DeleteResult{Deleted: true}
			return nil
		}

		if err := tx.Where("conversation_id = ?", conv.ID).Delete(&models.Message{}).Error; err != nil {
			return internalError("failed to delete messages", err)
		}
		res := tx.Where("id = ?", conv.ID).
			Where(other.Column("deleted_at") + " IS NOT NULL").
			Delete(&models.Conversation{})
		if res.Error != nil {
			return internalError("failed to delete conversation", res.Error)
		}
		if res.RowsAffected != 1 {
			return ErrConversationNotFound
		}
		result = DeleteResult{Deleted: true, HardDeleted: true}
		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}

	kind := "soft"
	if result.HardDeleted {
		kind = "hard"
	}
	s.opts.Logger.Info(fmt.Sprintf("%s deleted conversation", kind),
		"conversation_id", conversationID, "user_id", userID)
	return result, nil
}

// DeleteAllForUser removes every conversation userID takes part in, regardless
// of the other participant. Used when an account is deleted.
func (s *LifecycleService) DeleteAllForUser(ctx context.Context, userID string) error {
	var removed int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.Conversation{}).
			Where("adopter_id = ? OR rehomer_id = ?", userID, userID).
			Pluck("id", &ids).Error; err != nil {
			return internalError("failed to list conversations", err)
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("conversation_id IN ?", ids).Delete(&models.Message{}).Error; err != nil {
			return internalError("failed to delete messages", err)
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.Conversation{}).Error; err != nil {
			return internalError("failed to delete conversations", err)
		}
		removed = len(ids)
		return nil
	})
	if err != nil {
		return err
	}

	s.opts.Logger.Info("deleted conversations for user", "user_id", userID, "count", removed)
	return nil
}

// ValidateParticipants checks that adopterID belongs to an adopter and
// rehomerID to a rehomer according to the shared users table.
func (s *LifecycleService) ValidateParticipants(ctx context.Context, adopterID, rehomerID string) error {
	var profiles []models.UserProfile
	if err := s.db.WithContext(ctx).
		Where("id IN ?", []string{adopterID, rehomerID}).
		Find(&profiles).Error; err != nil {
		return internalError("failed to load participants", err)
	}

	types := make(map[string]models.UserType, len(profiles))
	for _, p := range profiles {
		types[p.ID] = p.UserType
	}

	if t, ok := types[adopterID]; !ok || !t.Is(models.UserTypeAdopter) {
		return forbidden("user %s is not an adopter or does not exist", adopterID)
	}
	if t, ok := types[rehomerID]; !ok || !t.Is(models.UserTypeRehomer) {
		return forbidden("user %s is not a rehomer or does not exist", rehomerID)
	}
	return nil
}
