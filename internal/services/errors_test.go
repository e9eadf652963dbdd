package services

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(ErrConversationNotFound))
	assert.Equal(t, KindForbidden, KindOf(fmt.Errorf("send: %w", ErrNotParticipant)))
	assert.Equal(t, KindConflict, KindOf(&Error{Kind: KindConflict, Message: "race"}))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestMessageHidesInternalCauses(t *testing.T) {
	err := internalError("failed to fetch conversations", errors.New("dial tcp: connection refused"))

	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "failed to fetch conversations", Message(err))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "internal error", Message(errors.New("raw driver failure")))
}

func TestForbidden(t *testing.T) {
	err := forbidden("user %s is not an adopter", "u1")
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.Equal(t, "user u1 is not an adopter", Message(err))
}
