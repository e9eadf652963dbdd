package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"adoption-chat-server/internal/models"
)

// ConversationView is a conversation as seen by one participant.
type ConversationView struct {
	ConversationID      string     `json:"conversationId"`
	AdopterID           string     `json:"adopterId"`
	RehomerID           string     `json:"rehomerId"`
	AnimalID            *string    `json:"animalId"`
	CreatedAt           time.Time  `json:"createdAt"`
	LastMessageAt       *time.Time `json:"lastMessageAt"`
	AdopterLastActiveAt *time.Time `json:"adopterLastActiveAt"`
	RehomerLastActiveAt *time.Time `json:"rehomerLastActiveAt"`
	AdopterLastReadAt   *time.Time `json:"adopterLastReadAt"`
	RehomerLastReadAt   *time.Time `json:"rehomerLastReadAt"`
	AdopterIsTyping     bool       `json:"adopterIsTyping"`
	RehomerIsTyping     bool       `json:"rehomerIsTyping"`
	AdopterLastTypingAt *time.Time `json:"adopterLastTypingAt"`
	RehomerLastTypingAt *time.Time `json:"rehomerLastTypingAt"`

	OtherUserID             string  `json:"otherUserId"`
	OtherUserName           *string `json:"otherUserName"`
	OtherUserProfilePicture *string `json:"otherUserProfilePicture"`
	UnreadCount             int64   `json:"unreadCount"`
	AnimalName              *string `json:"animalName"`
	AnimalPhoto             *string `json:"animalPhoto"`
}

// ConversationPage is one page of a user's conversations.
type ConversationPage struct {
	Conversations []ConversationView `json:"conversations"`
	Pagination    Pagination         `json:"pagination"`
}

// MessagePage is one page of a conversation's messages.
type MessagePage struct {
	Messages   []models.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

// QueryService builds the paged, enriched read views.
type QueryService struct {
	db   *gorm.DB
	opts Options
}

// NewQueryService creates a new QueryService.
func NewQueryService(db *gorm.DB, opts Options) *QueryService {
	return &QueryService{db: db, opts: opts.withDefaults()}
}

// visibleTo limits conversations to those userID takes part in and has not hidden.
func visibleTo(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"(adopter_id = ? AND adopter_deleted_at IS NULL) OR (rehomer_id = ? AND rehomer_deleted_at IS NULL)",
			userID, userID)
	}
}

// ListConversations returns userID's conversations, most recent activity first.
func (s *QueryService) ListConversations(ctx context.Context, userID string, page, pageSize int) (*ConversationPage, error) {
	page, pageSize = normalizePage(page, pageSize)
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Conversation{}).Scopes(visibleTo(userID)).Count(&total).Error; err != nil {
		return nil, internalError("failed to count conversations", err)
	}

	var convs []models.Conversation
	if beyondLastPage(page, pageSize, total) {
		return &ConversationPage{
			Conversations: []ConversationView{},
			Pagination:    NewPagination(page, pageSize, total),
		}, nil
	}
	if err := db.Scopes(visibleTo(userID)).
		Order("last_message_at IS NULL").
		Order("last_message_at DESC").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset(page, pageSize)).
		Find(&convs).Error; err != nil {
		return nil, internalError("failed to fetch conversations", err)
	}

	views, err := s.enrich(db, userID, convs)
	if err != nil {
		return nil, err
	}

	s.opts.Logger.Info("listed conversations",
		"user_id", userID, "count", len(views), "page", page, "page_size", pageSize)
	return &ConversationPage{
		Conversations: views,
		Pagination:    NewPagination(page, pageSize, total),
	}, nil
}

type unreadRow struct {
	ConversationID string
	Unread         int64
}

// enrich attaches profile, unread and animal data with one query per source.
func (s *QueryService) enrich(db *gorm.DB, userID string, convs []models.Conversation) ([]ConversationView, error) {
	views := make([]ConversationView, 0, len(convs))
	if len(convs) == 0 {
		return views, nil
	}

	convIDs := make([]string, 0, len(convs))
	otherIDs := make([]string, 0, len(convs))
	var animalIDs []string
	for i := range convs {
		if err := validateRecord(&convs[i]); err != nil {
			return nil, err
		}
		convIDs = append(convIDs, convs[i].ID)
		side, _ := convs[i].SideOf(userID)
		otherIDs = append(otherIDs, convs[i].ParticipantID(side.Other()))
		if convs[i].AnimalID != nil {
			animalIDs = append(animalIDs, *convs[i].AnimalID)
		}
	}

	var profiles []models.UserProfile
	if err := db.Where("id IN ?", otherIDs).Find(&profiles).Error; err != nil {
		return nil, internalError("failed to fetch participant profiles", err)
	}
	profileByID := make(map[string]models.UserProfile, len(profiles))
	for _, p := range profiles {
		profileByID[p.ID] = p
	}

	var unread []unreadRow
	if err := db.Model(&models.Message{}).
		Select("conversation_id, COUNT(*) AS unread").
		Where("conversation_id IN ? AND sender_id <> ? AND is_read = ?", convIDs, userID, false).
		Group("conversation_id").
		Scan(&unread).Error; err != nil {
		return nil, internalError("failed to count unread messages", err)
	}
	unreadByID := make(map[string]int64, len(unread))
	for _, row := range unread {
		unreadByID[row.ConversationID] = row.Unread
	}

	animalByID := map[string]models.Animal{}
	photoByAnimal := map[string]string{}
	if len(animalIDs) > 0 {
		var animals []models.Animal
		if err := db.Where("id IN ?", animalIDs).Find(&animals).Error; err != nil {
			return nil, internalError("failed to fetch animals", err)
		}
		for _, a := range animals {
			animalByID[a.ID] = a
		}

		var photos []models.AnimalPhoto
		if err := db.Where("animal_id IN ?", animalIDs).
			Where(map[string]interface{}{"order": 0}).
			Find(&photos).Error; err != nil {
			return nil, internalError("failed to fetch animal photos", err)
		}
		for _, p := range photos {
			if _, seen := photoByAnimal[p.AnimalID]; !seen {
				photoByAnimal[p.AnimalID] = p.PhotoURL
			}
		}
	}

	now := s.opts.Now()
	for i := range convs {
		c := &convs[i]
		side, _ := c.SideOf(userID)
		view := newConversationView(c, now, s.opts.TypingWindow)
		view.OtherUserID = c.ParticipantID(side.Other())
		view.UnreadCount = unreadByID[c.ID]

		if p, ok := profileByID[view.OtherUserID]; ok {
			if p.DisplayName != "" {
				view.OtherUserName = &p.DisplayName
			}
			view.OtherUserProfilePicture = p.AvatarURL
		}
		if c.AnimalID != nil {
			if a, ok := animalByID[*c.AnimalID]; ok && a.Name != "" {
				view.AnimalName = &a.Name
			}
			if url, ok := photoByAnimal[*c.AnimalID]; ok && url != "" {
				view.AnimalPhoto = &url
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func newConversationView(c *models.Conversation, now time.Time, window time.Duration) ConversationView {
	adopterTyping, adopterTypingAt := c.Typing(models.SideAdopter)
	rehomerTyping, rehomerTypingAt := c.Typing(models.SideRehomer)
	return ConversationView{
		ConversationID:      c.ID,
		AdopterID:           c.AdopterID,
		RehomerID:           c.RehomerID,
		AnimalID:            c.AnimalID,
		CreatedAt:           c.CreatedAt,
		LastMessageAt:       c.LastMessageAt,
		AdopterLastActiveAt: c.AdopterLastActiveAt,
		RehomerLastActiveAt: c.RehomerLastActiveAt,
		AdopterLastReadAt:   c.AdopterLastReadAt,
		RehomerLastReadAt:   c.RehomerLastReadAt,
		AdopterIsTyping:     IsTypingActive(adopterTyping, adopterTypingAt, now, window),
		RehomerIsTyping:     IsTypingActive(rehomerTyping, rehomerTypingAt, now, window),
		AdopterLastTypingAt: adopterTypingAt,
		RehomerLastTypingAt: rehomerTypingAt,
	}
}

// ListMessages returns a page of the conversation's messages, oldest first.
func (s *QueryService) ListMessages(ctx context.Context, conversationID, userID string, page, pageSize int) (*MessagePage, error) {
	page, pageSize = normalizePage(page, pageSize)
	db := s.db.WithContext(ctx)

	conv, _, err := loadConversation(db, conversationID, userID, false)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := db.Model(&models.Message{}).Where("conversation_id = ?", conv.ID).Count(&total).Error; err != nil {
		return nil, internalError("failed to count messages", err)
	}

	messages := make([]models.Message, 0, pageSize)
	if beyondLastPage(page, pageSize, total) {
		return &MessagePage{Messages: messages, Pagination: NewPagination(page, pageSize, total)}, nil
	}
	if err := db.Where("conversation_id = ?", conv.ID).
		Order("created_at ASC").
		Order("id ASC").
		Limit(pageSize).
		Offset(offset(page, pageSize)).
		Find(&messages).Error; err != nil {
		return nil, internalError("failed to fetch messages", err)
	}
	for i := range messages {
		if err := validateRecord(&messages[i]); err != nil {
			return nil, err
		}
	}

	s.opts.Logger.Info("listed messages",
		"conversation_id", conversationID, "count", len(messages), "page", page, "page_size", pageSize)
	return &MessagePage{
		Messages:   messages,
		Pagination: NewPagination(page, pageSize, total),
	}, nil
}
