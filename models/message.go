package models

import "time"

// Message types.
const (
	MessageTypeText  = "TEXT"
	MessageTypeImage = "IMAGE"
	MessageTypeFile  = "FILE"
)

// ValidMessageType reports whether t is one of the known message types.
func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeFile:
		return true
	}
	return false
}

// Message belongs to a conversation and to its sender. Only the sender
// may edit or delete it; deleting the conversation removes it.
type Message struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	MessageType    string    `gorm:"size:10;not null;default:'TEXT'" json:"message_type"`
	SenderID       string    `gorm:"type:varchar(36);index;not null" json:"sender_id"`
	ConversationID string    `gorm:"type:varchar(36);index;not null" json:"conversation_id"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Sender       User          `gorm:"foreignKey:SenderID;references:ID" json:"sender"`
	Conversation *Conversation `gorm:"foreignKey:ConversationID;references:ID" json:"conversation,omitempty"`
}
