package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/whogoodluck/chatapp/models"
)

// newTestDB opens an in-memory sqlite database with the schema migrated.
// The pool is pinned to a single connection so every query sees the same
// in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.Migrate(db))

	return db
}

func newTestLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	return logger.Sugar()
}

type testEnv struct {
	db            *gorm.DB
	users         *UserService
	conversations *ConversationService
	messages      *MessageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	logger := newTestLogger(t)

	return &testEnv{
		db:            db,
		users:         NewUserService(db, logger),
		conversations: NewConversationService(db, logger),
		messages:      NewMessageService(db, logger),
	}
}

var userSeq int

// createTestUser registers a user with a unique email and returns it.
func createTestUser(t *testing.T, users *UserService) *models.User {
	t.Helper()

	userSeq++
	email := fmt.Sprintf("user%d@example.com", userSeq)

	user, err := users.Create(context.Background(), email, fmt.Sprintf("Test User %d", userSeq), "password123")
	require.NoError(t, err)

	return user
}

func strptr(s string) *string { return &s }
