package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/whogoodluck/chatapp/models"
)

// MessageService implements message exchange within a conversation plus
// the per-participant read state.
type MessageService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewMessageService(db *gorm.DB, logger *zap.SugaredLogger) *MessageService {
	return &MessageService{db: db, logger: logger}
}

// Create stores a message from a current participant and touches the
// parent conversation's updated_at, which is what drives recency
// ordering in the conversation list. Both writes happen in one
// transaction so the list can never show a conversation as active
// without its message existing.
func (s *MessageService) Create(ctx context.Context, content, senderID, conversationID, messageType string) (*models.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("message content must not be empty: %w", ErrValidation)
	}
	if messageType == "" {
		messageType = models.MessageTypeText
	}
	if !models.ValidMessageType(messageType) {
		return nil, fmt.Errorf("unknown message type %q: %w", messageType, ErrValidation)
	}

	if err := s.requireParticipant(ctx, conversationID, senderID); err != nil {
		return nil, err
	}

	message := models.Message{
		ID:             uuid.New().String(),
		Content:        content,
		MessageType:    messageType,
		SenderID:       senderID,
		ConversationID: conversationID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debugf("created message %s in conversation %s", message.ID, conversationID)

	var created models.Message
	if err := s.db.WithContext(ctx).Preload("Sender").Where("id = ?", message.ID).First(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// List returns one page of the conversation's messages in chronological
// order. Pagination windows apply to the created_at-descending order
// (page 1 is the most recent messages); the page itself is reversed so
// callers render oldest-first. Each message carries its sender plus a
// snapshot of the conversation's participants, name and group flag.
func (s *MessageService) List(ctx context.Context, conversationID string, page, limit int) ([]models.Message, error) {
	page, limit = normalizePage(page, limit, 50)

	var messages []models.Message
	err := s.db.WithContext(ctx).
		Preload("Sender").
		Preload("Conversation.Participants.User").
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// ListFor is List behind the membership gate: the HTTP layer uses it so
// only participants can read a conversation's messages.
func (s *MessageService) ListFor(ctx context.Context, conversationID, userID string, page, limit int) ([]models.Message, error) {
	if err := s.requireParticipant(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return s.List(ctx, conversationID, page, limit)
}

// Update edits a message's content. Only the sender may edit.
func (s *MessageService) Update(ctx context.Context, messageID, content, actingUserID string) (*models.Message, error) {
	message, err := s.getMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.SenderID != actingUserID {
		return nil, fmt.Errorf("only the sender may edit a message: %w", ErrForbidden)
	}

	if err := s.db.WithContext(ctx).Model(message).Update("content", content).Error; err != nil {
		return nil, err
	}

	var updated models.Message
	if err := s.db.WithContext(ctx).Preload("Sender").Where("id = ?", messageID).First(&updated).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete permanently removes a message. Only the sender may delete.
func (s *MessageService) Delete(ctx context.Context, messageID, actingUserID string) error {
	message, err := s.getMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if message.SenderID != actingUserID {
		return fmt.Errorf("only the sender may delete a message: %w", ErrForbidden)
	}

	return s.db.WithContext(ctx).Where("id = ?", messageID).Delete(&models.Message{}).Error
}

// MarkRead moves the participant's last-read marker to now. Messages
// created before this moment no longer count as unread for the user.
func (s *MessageService) MarkRead(ctx context.Context, conversationID, userID string) error {
	res := s.db.WithContext(ctx).Model(&models.ConversationParticipant{}).
		Where("user_id = ? AND conversation_id = ?", userID, conversationID).
		Update("last_read_at", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotAParticipant
	}
	return nil
}

// UnreadCount counts the messages created after the participant's
// last-read marker that were sent by someone else. The user's own
// messages never count as unread.
func (s *MessageService) UnreadCount(ctx context.Context, conversationID, userID string) (int64, error) {
	var participant models.ConversationParticipant
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND conversation_id = ?", userID, conversationID).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotAParticipant
		}
		return 0, err
	}

	var count int64
	err = s.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND created_at > ? AND sender_id <> ?",
			conversationID, participant.LastReadAt, userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (s *MessageService) getMessage(ctx context.Context, messageID string) (*models.Message, error) {
	var message models.Message
	err := s.db.WithContext(ctx).Where("id = ?", messageID).First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("message %s: %w", messageID, ErrNotFound)
		}
		return nil, err
	}
	return &message, nil
}

// requireParticipant mirrors the conversation-side membership gate for
// message writes.
func (s *MessageService) requireParticipant(ctx context.Context, conversationID, userID string) error {
	var participant models.ConversationParticipant
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND conversation_id = ?", userID, conversationID).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAParticipant
		}
		return err
	}
	return nil
}
