package services

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoption-chat-server/internal/models"
)

func TestListConversations_Ordering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	adopter := uuid.NewString()

	create := func() *models.Conversation {
		conv, err := env.svc.Lifecycle.CreateOrGet(ctx, adopter, uuid.NewString(), "")
		require.NoError(t, err)
		env.clock.Advance(time.Second)
		return conv
	}
	quietOld := create()
	chatty := create()
	quietNew := create()
	recent := create()

	env.send(t, chatty, chatty.RehomerID, "first")
	env.clock.Advance(time.Second)
	env.send(t, recent, recent.RehomerID, "second")

	page, err := env.svc.Query.ListConversations(ctx, adopter, 1, 20)
	require.NoError(t, err)

	var got []string
	for _, c := range page.Conversations {
		got = append(got, c.ConversationID)
	}
	assert.Equal(t, []string{recent.ID, chatty.ID, quietNew.ID, quietOld.ID}, got)
	assert.Equal(t, Pagination{TotalResults: 4, Page: 1, PageSize: 20, TotalPages: 1}, page.Pagination)
}

func TestListConversations_Paging(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	adopter := uuid.NewString()

	var ids []string
	for i := 0; i < 5; i++ {
		conv, err := env.svc.Lifecycle.CreateOrGet(ctx, adopter, uuid.NewString(), "")
		require.NoError(t, err)
		ids = append([]string{conv.ID}, ids...)
		env.clock.Advance(time.Second)
	}

	page, err := env.svc.Query.ListConversations(ctx, adopter, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Conversations, 2)
	assert.Equal(t, ids[2], page.Conversations[0].ConversationID)
	assert.Equal(t, ids[3], page.Conversations[1].ConversationID)
	assert.Equal(t, Pagination{TotalResults: 5, Page: 2, PageSize: 2, TotalPages: 3}, page.Pagination)

	page, err = env.svc.Query.ListConversations(ctx, adopter, 4, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Conversations)
	assert.NotNil(t, page.Conversations)

	page, err = env.svc.Query.ListConversations(ctx, uuid.NewString(), 1, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Conversations)
	assert.Equal(t, 1, page.Pagination.TotalPages)
}

func TestListConversations_Enrichment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	adopter, rehomer, animal := uuid.NewString(), uuid.NewString(), uuid.NewString()
	avatar := "https://cdn.example.org/rex.png"

	require.NoError(t, env.db.Create(&[]models.UserProfile{
		{ID: adopter, DisplayName: "Ada", UserType: models.UserTypeAdopter},
		{ID: rehomer, DisplayName: "Rex", AvatarURL: &avatar, UserType: models.UserTypeRehomer},
	}).Error)
	require.NoError(t, env.db.Create(&models.Animal{ID: animal, Name: "Biscuit"}).Error)
	require.NoError(t, env.db.Create(&[]models.AnimalPhoto{
		{AnimalID: animal, PhotoURL: "https://cdn.example.org/biscuit-2.jpg", Order: 1},
		{AnimalID: animal, PhotoURL: "https://cdn.example.org/biscuit-1.jpg", Order: 0},
	}).Error)

	conv, err := env.svc.Lifecycle.CreateOrGet(ctx, adopter, rehomer, animal)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		env.send(t, conv, rehomer, fmt.Sprintf("photo %d", i))
	}
	env.send(t, conv, adopter, "so cute")

	page, err := env.svc.Query.ListConversations(ctx, adopter, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Conversations, 1)
	view := page.Conversations[0]

	assert.Equal(t, rehomer, view.OtherUserID)
	require.NotNil(t, view.OtherUserName)
	assert.Equal(t, "Rex", *view.OtherUserName)
	require.NotNil(t, view.OtherUserProfilePicture)
	assert.Equal(t, avatar, *view.OtherUserProfilePicture)
	assert.Equal(t, int64(3), view.UnreadCount)
	require.NotNil(t, view.AnimalName)
	assert.Equal(t, "Biscuit", *view.AnimalName)
	require.NotNil(t, view.AnimalPhoto)
	assert.Equal(t, "https://cdn.example.org/biscuit-1.jpg", *view.AnimalPhoto)

	// the rehomer sees the adopter, who has no avatar, and one unread reply
	page, err = env.svc.Query.ListConversations(ctx, rehomer, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Conversations, 1)
	view = page.Conversations[0]
	assert.Equal(t, adopter, view.OtherUserID)
	require.NotNil(t, view.OtherUserName)
	assert.Equal(t, "Ada", *view.OtherUserName)
	assert.Nil(t, view.OtherUserProfilePicture)
	assert.Equal(t, int64(1), view.UnreadCount)
}

func TestListConversations_MissingReferenceData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	conv, err := env.svc.Lifecycle.CreateOrGet(ctx, uuid.NewString(), uuid.NewString(), uuid.NewString())
	require.NoError(t, err)

	page, err := env.svc.Query.ListConversations(ctx, conv.AdopterID, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Conversations, 1)
	view := page.Conversations[0]
	assert.Equal(t, conv.RehomerID, view.OtherUserID)
	assert.Nil(t, view.OtherUserName)
	assert.Nil(t, view.OtherUserProfilePicture)
	assert.Nil(t, view.AnimalName)
	assert.Nil(t, view.AnimalPhoto)
	assert.Zero(t, view.UnreadCount)
}

func TestListConversations_HidesOnlyFromDeletingSide(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	conv := env.newConversation(t)

	_, err := env.svc.Lifecycle.Delete(ctx, conv.ID, conv.RehomerID)
	require.NoError(t, err)

	page, err := env.svc.Query.ListConversations(ctx, conv.RehomerID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Conversations)
	assert.Equal(t, int64(0), page.Pagination.TotalResults)

	page, err = env.svc.Query.ListConversations(ctx, conv.AdopterID, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Conversations, 1)
}

func TestListMessages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	conv := env.newConversation(t)

	for i := 0; i < 5; i++ {
		env.send(t, conv, conv.AdopterID, fmt.Sprintf("message %d", i))
		env.clock.Advance(time.Second)
	}

	page, err := env.svc.Query.ListMessages(ctx, conv.ID, conv.RehomerID, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Messages, 5)
	for i, m := range page.Messages {
		assert.Equal(t, fmt.Sprintf("message %d", i), m.Content)
	}
	assert.Equal(t, Pagination{TotalResults: 5, Page: 1, PageSize: 20, TotalPages: 1}, page.Pagination)

	page, err = env.svc.Query.ListMessages(ctx, conv.ID, conv.AdopterID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "message 2", page.Messages[0].Content)
	assert.Equal(t, "message 3", page.Messages[1].Content)
	assert.Equal(t, 3, page.Pagination.TotalPages)

	// reading the history does not mark anything as read
	unread, err := env.svc.Messaging.GetUnreadCount(ctx, conv.RehomerID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), unread)
}

func TestList_HugePageIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	conv := env.newConversation(t)
	env.send(t, conv, conv.AdopterID, "only message")
	huge := math.MaxInt64 / 10

	msgs, err := env.svc.Query.ListMessages(ctx, conv.ID, conv.AdopterID, huge, 20)
	require.NoError(t, err)
	assert.Empty(t, msgs.Messages)
	assert.NotNil(t, msgs.Messages)
	assert.Equal(t, Pagination{TotalResults: 1, Page: huge, PageSize: 20, TotalPages: 1}, msgs.Pagination)

	convs, err := env.svc.Query.ListConversations(ctx, conv.AdopterID, huge, 20)
	require.NoError(t, err)
	assert.Empty(t, convs.Conversations)
	assert.NotNil(t, convs.Conversations)
	assert.Equal(t, huge, convs.Pagination.Page)
}

func TestListMessages_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	conv := env.newConversation(t)

	_, err := env.svc.Query.ListMessages(ctx, uuid.NewString(), conv.AdopterID, 1, 20)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = env.svc.Query.ListMessages(ctx, conv.ID, uuid.NewString(), 1, 20)
	assert.Equal(t, KindForbidden, KindOf(err))
}
