package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adoption-chat-server/internal/config"
	"adoption-chat-server/internal/models"
	"adoption-chat-server/internal/utils"
)

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "purge-user", "token"} {
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, subCmd.Name())
		})
	}

	envFlag := cmd.PersistentFlags().Lookup("env-file")
	require.NotNil(t, envFlag)
	assert.Equal(t, ".env", envFlag.DefValue)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("NODE_ENV", "development")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("TYPING_WINDOW_MS", "10000")
	t.Setenv("TYPING_RATE_LIMIT_PER_SECOND", "5")
	userID := uuid.NewString()

	out, err := execute(t, "token", userID, "--ttl", "1h")
	require.NoError(t, err)

	claims, err := utils.ValidateToken(strings.TrimSpace(out), "test-secret")
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)

	_, err = execute(t, "token", "not-a-uuid")
	assert.Error(t, err)

	t.Setenv("NODE_ENV", "production")
	_, err = execute(t, "token", userID)
	assert.Error(t, err)
}

func TestPurgeUserCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "chat.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", dbPath)
	t.Setenv("NODE_ENV", "production")
	t.Setenv("TYPING_WINDOW_MS", "10000")
	t.Setenv("TYPING_RATE_LIMIT_PER_SECOND", "5")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	db, svc, err := openServices(cfg, newLogger(cfg, &bytes.Buffer{}))
	require.NoError(t, err)

	leaving := uuid.NewString()
	conv, err := svc.Lifecycle.CreateOrGet(context.Background(), leaving, uuid.NewString(), "")
	require.NoError(t, err)
	_, err = svc.Messaging.SendMessage(context.Background(), conv.ID, leaving, "bye")
	require.NoError(t, err)
	closeDB(db)

	out, err := execute(t, "purge-user", leaving)
	require.NoError(t, err)
	assert.Contains(t, out, leaving)

	db, _, err = openServices(cfg, newLogger(cfg, &bytes.Buffer{}))
	require.NoError(t, err)
	defer closeDB(db)
	var n int64
	require.NoError(t, db.Model(&models.Conversation{}).Where("adopter_id = ?", leaving).Count(&n).Error)
	assert.Zero(t, n)

	_, err = execute(t, "purge-user", "not-a-uuid")
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	assert.NoError(t, loadEnvFile(""))
	assert.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CHAT_TEST_ENV_VALUE=loaded\n"), 0o600))
	t.Setenv("CHAT_TEST_ENV_VALUE", "")
	os.Unsetenv("CHAT_TEST_ENV_VALUE")
	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "loaded", os.Getenv("CHAT_TEST_ENV_VALUE"))
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&config.Config{Environment: "production", LogLevel: "warn"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "user_id", "u1")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
