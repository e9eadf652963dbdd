package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"adoption-chat-server/internal/models"
)

// fakeClock is a settable clock shared by every service under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	db    *gorm.DB
	clock *fakeClock
	svc   *Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "chat.db")
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.Migrate(db))
	require.NoError(t, models.MigrateReadModels(db))

	clock := newFakeClock()
	return &testEnv{
		db:    db,
		clock: clock,
		svc:   New(db, Options{Now: clock.Now}),
	}
}

// newConversation creates a conversation between two fresh users.
func (e *testEnv) newConversation(t *testing.T) *models.Conversation {
	t.Helper()
	conv, err := e.svc.Lifecycle.CreateOrGet(context.Background(), uuid.NewString(), uuid.NewString(), "")
	require.NoError(t, err)
	return conv
}

func (e *testEnv) send(t *testing.T, conv *models.Conversation, senderID, content string) *models.Message {
	t.Helper()
	msg, err := e.svc.Messaging.SendMessage(context.Background(), conv.ID, senderID, content)
	require.NoError(t, err)
	return msg
}

func (e *testEnv) reload(t *testing.T, id string) *models.Conversation {
	t.Helper()
	var conv models.Conversation
	require.NoError(t, e.db.Where("id = ?", id).Take(&conv).Error)
	return &conv
}

func (e *testEnv) countRows(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
