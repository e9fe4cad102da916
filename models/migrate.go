package models

import "gorm.io/gorm"

// Migrate runs the schema auto-migration for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Conversation{},
		&ConversationParticipant{},
		&Message{},
	)
}
