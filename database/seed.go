package database

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/whogoodluck/chatapp/models"
	"github.com/whogoodluck/chatapp/services"
)

func strptr(s string) *string { return &s }

// Seed wipes the chat tables and repopulates them with demo accounts
// (password "password123"), a direct conversation and a group. Dev
// convenience only, guarded by the SEED env flag.
func Seed(db *gorm.DB, logger *zap.SugaredLogger) error {
	ctx := context.Background()

	for _, model := range []interface{}{
		&models.Message{},
		&models.ConversationParticipant{},
		&models.Conversation{},
		&models.User{},
	} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}

	userSvc := services.NewUserService(db, logger)
	convSvc := services.NewConversationService(db, logger)
	msgSvc := services.NewMessageService(db, logger)

	seedUsers := []struct {
		email    string
		fullName string
		avatar   string
		online   bool
	}{
		{"john.doe@example.com", "John Doe", "https://i.pravatar.cc/150?u=john", true},
		{"sarah.wilson@example.com", "Sarah Wilson", "https://i.pravatar.cc/150?u=sarah", false},
		{"mike.chen@example.com", "Mike Chen", "https://i.pravatar.cc/150?u=mike", true},
		{"emma.davis@example.com", "Emma Davis", "https://i.pravatar.cc/150?u=emma", false},
	}

	users := make([]*models.User, 0, len(seedUsers))
	for _, su := range seedUsers {
		user, err := userSvc.Create(ctx, su.email, su.fullName, "password123")
		if err != nil {
			return err
		}
		if err := db.Model(user).Updates(map[string]interface{}{
			"avatar":    su.avatar,
			"is_online": su.online,
			"last_seen": time.Now(),
		}).Error; err != nil {
			return err
		}
		users = append(users, user)
	}

	direct, err := convSvc.Create(ctx, nil, false, []string{users[0].ID, users[1].ID})
	if err != nil {
		return err
	}

	group, err := convSvc.Create(ctx, strptr("Weekend Plans"), true, []string{users[0].ID, users[2].ID, users[3].ID})
	if err != nil {
		return err
	}

	directMessages := []struct {
		sender  *models.User
		content string
	}{
		{users[0], "Hey Sarah, how's the new project going?"},
		{users[1], "Pretty well! Shipping the first cut this week."},
		{users[0], "Nice, let me know if you need a review."},
	}
	for _, dm := range directMessages {
		if _, err := msgSvc.Create(ctx, dm.content, dm.sender.ID, direct.ID, models.MessageTypeText); err != nil {
			return err
		}
	}

	if _, err := msgSvc.Create(ctx, "Anyone up for hiking on Saturday?", users[2].ID, group.ID, models.MessageTypeText); err != nil {
		return err
	}
	if _, err := msgSvc.Create(ctx, "Count me in!", users[3].ID, group.ID, models.MessageTypeText); err != nil {
		return err
	}

	logger.Infof("seeded %d users, 2 conversations", len(users))

	return nil
}
