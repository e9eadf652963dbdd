package models

import (
	"time"
)

// Side identifies which of the two fixed roles a participant holds
type Side string

const (
	SideAdopter Side = "adopter"
	SideRehomer Side = "rehomer"
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideAdopter {
		return SideRehomer
	}
	return SideAdopter
}

// Column returns the per-side column name for field, e.g. "adopter_deleted_at".
func (s Side) Column(field string) string {
	return string(s) + "_" + field
}

// Conversation represents a two-party conversation between an adopter and a rehomer,
// optionally about one animal.
type Conversation struct {
	BaseModel
	AdopterID     string     `gorm:"size:36;not null;index;uniqueIndex:idx_conversation_key,priority:1" json:"adopterId" validate:"required,uuid"`
	RehomerID     string     `gorm:"size:36;not null;index;uniqueIndex:idx_conversation_key,priority:2" json:"rehomerId" validate:"required,uuid"`
	AnimalID      *string    `gorm:"size:36;uniqueIndex:idx_conversation_key,priority:3" json:"animalId" validate:"omitempty,uuid"`
	LastMessageAt *time.Time `gorm:"index" json:"lastMessageAt"`

	AdopterLastActiveAt *time.Time `json:"adopterLastActiveAt"`
	RehomerLastActiveAt *time.Time `json:"rehomerLastActiveAt"`
	AdopterLastReadAt   *time.Time `json:"adopterLastReadAt"`
	RehomerLastReadAt   *time.Time `json:"rehomerLastReadAt"`
	AdopterDeletedAt    *time.Time `json:"-"`
	RehomerDeletedAt    *time.Time `json:"-"`
	AdopterIsTyping     bool       `gorm:"not null;default:false" json:"adopterIsTyping"`
	RehomerIsTyping     bool       `gorm:"not null;default:false" json:"rehomerIsTyping"`
	AdopterLastTypingAt *time.Time `json:"adopterLastTypingAt"`
	RehomerLastTypingAt *time.Time `json:"rehomerLastTypingAt"`
}

// SideOf reports which side userID participates on.
func (c *Conversation) SideOf(userID string) (Side, bool) {
	switch userID {
	case c.AdopterID:
		return SideAdopter, true
	case c.RehomerID:
		return SideRehomer, true
	}
	return "", false
}

// ParticipantID returns the user id on the given side.
func (c *Conversation) ParticipantID(side Side) string {
	if side == SideAdopter {
		return c.AdopterID
	}
	return c.RehomerID
}

// DeletedAt returns the soft-delete marker of the given side.
func (c *Conversation) DeletedAt(side Side) *time.Time {
	if side == SideAdopter {
		return c.AdopterDeletedAt
	}
	return c.RehomerDeletedAt
}

// Typing returns the stored typing flag and timestamp of the given side.
func (c *Conversation) Typing(side Side) (bool, *time.Time) {
	if side == SideAdopter {
		return c.AdopterIsTyping, c.AdopterLastTypingAt
	}
	return c.RehomerIsTyping, c.RehomerLastTypingAt
}
