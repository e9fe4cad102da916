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

// DirectKey builds the dedup key for a direct conversation: the two
// participant ids sorted and joined, so the same pair always maps to the
// same key regardless of argument order.
func DirectKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// ConversationService implements conversation creation, listing and
// membership management.
type ConversationService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewConversationService(db *gorm.DB, logger *zap.SugaredLogger) *ConversationService {
	return &ConversationService{db: db, logger: logger}
}

// Create starts a conversation between the given participants. Direct
// conversations (isGroup=false, exactly two participants) are idempotent:
// if the pair already has one it is returned unchanged, and the unique
// direct_key index resolves the create/create race by turning the loser
// into a lookup. Group conversations require a name and are always
// created fresh.
func (s *ConversationService) Create(ctx context.Context, name *string, isGroup bool, participantIDs []string) (*models.Conversation, error) {
	db := s.db.WithContext(ctx)

	if hasDuplicateIDs(participantIDs) {
		return nil, fmt.Errorf("duplicate participant ids: %w", ErrValidation)
	}

	var key *string
	if !isGroup {
		if len(participantIDs) != 2 {
			return nil, fmt.Errorf("a direct conversation needs exactly two participants: %w", ErrValidation)
		}
		k := DirectKey(participantIDs[0], participantIDs[1])
		key = &k

		var existing models.Conversation
		err := db.Where("direct_key = ?", k).First(&existing).Error
		if err == nil {
			return s.loadWithLatestMessage(ctx, existing.ID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else {
		if name == nil || *name == "" {
			return nil, fmt.Errorf("a group conversation needs a name: %w", ErrValidation)
		}
		if len(participantIDs) < 2 {
			return nil, fmt.Errorf("a group conversation needs at least two participants: %w", ErrValidation)
		}
	}

	conv := models.Conversation{
		ID:        uuid.New().String(),
		Name:      name,
		IsGroup:   isGroup,
		DirectKey: key,
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}
		for _, id := range participantIDs {
			participant := models.ConversationParticipant{
				UserID:         id,
				ConversationID: conv.ID,
				JoinedAt:       now,
				LastReadAt:     now,
			}
			if err := tx.Create(&participant).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// two users opening the same DM at once: the second insert hits
		// the direct_key index, so hand back the winner's conversation
		if key != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.Conversation
			if lookupErr := db.Where("direct_key = ?", *key).First(&existing).Error; lookupErr == nil {
				return s.loadWithLatestMessage(ctx, existing.ID)
			}
		}
		return nil, err
	}

	s.logger.Infof("created conversation %s (group=%v, participants=%d)", conv.ID, isGroup, len(participantIDs))

	return s.loadWithLatestMessage(ctx, conv.ID)
}

// List returns the conversations the caller participates in, most
// recently active first. Each entry carries the participant profiles and
// the single latest message with its sender.
func (s *ConversationService) List(ctx context.Context, callerID string, page, limit int) ([]models.Conversation, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	page, limit = normalizePage(page, limit, 20)

	var conversations []models.Conversation
	err := s.db.WithContext(ctx).
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ?", callerID).
		Order("conversations.updated_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Preload("Participants.User").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}

	for i := range conversations {
		if err := s.attachLatestMessage(ctx, &conversations[i]); err != nil {
			return nil, err
		}
	}

	return conversations, nil
}

// GetByID returns the conversation with all participant profiles. The
// caller must be a participant.
func (s *ConversationService) GetByID(ctx context.Context, conversationID, userID string) (*models.Conversation, error) {
	if err := s.requireParticipant(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	var conv models.Conversation
	err := s.db.WithContext(ctx).
		Preload("Participants.User").
		Where("id = ?", conversationID).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
		}
		return nil, err
	}

	return &conv, nil
}

// AddParticipant inserts a new member into a group conversation. Direct
// conversations are closed-membership, and only current participants may
// invite.
func (s *ConversationService) AddParticipant(ctx context.Context, conversationID, actingUserID, newParticipantID string) (*models.ConversationParticipant, error) {
	db := s.db.WithContext(ctx)

	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.IsGroup {
		return nil, fmt.Errorf("cannot add participants to a direct conversation: %w", ErrNotAGroup)
	}
	if err := s.requireParticipant(ctx, conversationID, actingUserID); err != nil {
		return nil, err
	}

	var existing models.ConversationParticipant
	err = db.Where("user_id = ? AND conversation_id = ?", newParticipantID, conversationID).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("user %s is already a participant: %w", newParticipantID, ErrAlreadyExists)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	participant := models.ConversationParticipant{
		UserID:         newParticipantID,
		ConversationID: conversationID,
		JoinedAt:       now,
		LastReadAt:     now,
	}
	if err := db.Create(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("user %s is already a participant: %w", newParticipantID, ErrAlreadyExists)
		}
		return nil, err
	}

	if err := db.Preload("User").
		Where("user_id = ? AND conversation_id = ?", newParticipantID, conversationID).
		First(&participant).Error; err != nil {
		return nil, err
	}

	return &participant, nil
}

// RemoveParticipant removes a member from a group conversation. There is
// no admin role: users may only remove themselves.
func (s *ConversationService) RemoveParticipant(ctx context.Context, conversationID, actingUserID, targetUserID string) error {
	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.IsGroup {
		return fmt.Errorf("cannot remove participants from a direct conversation: %w", ErrNotAGroup)
	}
	if err := s.requireParticipant(ctx, conversationID, actingUserID); err != nil {
		return err
	}
	if actingUserID != targetUserID {
		return fmt.Errorf("only self-removal is allowed: %w", ErrForbidden)
	}

	return s.db.WithContext(ctx).
		Where("user_id = ? AND conversation_id = ?", targetUserID, conversationID).
		Delete(&models.ConversationParticipant{}).Error
}

// Update renames a group conversation. Only participants may rename and
// direct conversations have no name to change.
func (s *ConversationService) Update(ctx context.Context, conversationID, actingUserID, name string) (*models.Conversation, error) {
	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.IsGroup {
		return nil, fmt.Errorf("cannot rename a direct conversation: %w", ErrNotAGroup)
	}
	if err := s.requireParticipant(ctx, conversationID, actingUserID); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(conv).Update("name", name).Error
	if err != nil {
		return nil, err
	}

	return s.getConversation(ctx, conversationID)
}

// Delete removes a conversation with its participants and messages. Any
// current participant may delete it. The rows are removed in one
// transaction; the schema-level cascade covers out-of-band deletes.
func (s *ConversationService) Delete(ctx context.Context, conversationID, actingUserID string) error {
	if _, err := s.getConversation(ctx, conversationID); err != nil {
		return err
	}
	if err := s.requireParticipant(ctx, conversationID, actingUserID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", conversationID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", conversationID).Delete(&models.ConversationParticipant{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", conversationID).Delete(&models.Conversation{}).Error
	})
}

func (s *ConversationService) getConversation(ctx context.Context, conversationID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.WithContext(ctx).Where("id = ?", conversationID).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
		}
		return nil, err
	}
	return &conv, nil
}

// requireParticipant fails with ErrNotAParticipant unless a membership
// row exists for (userID, conversationID).
func (s *ConversationService) requireParticipant(ctx context.Context, conversationID, userID string) error {
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

// loadWithLatestMessage fetches the conversation with participant
// profiles plus its single most recent message, if any.
func (s *ConversationService) loadWithLatestMessage(ctx context.Context, conversationID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.WithContext(ctx).
		Preload("Participants.User").
		Where("id = ?", conversationID).
		First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
		}
		return nil, err
	}

	if err := s.attachLatestMessage(ctx, &conv); err != nil {
		return nil, err
	}

	return &conv, nil
}

// attachLatestMessage is a read-side projection: the latest message is
// joined in at query time per conversation, never stored redundantly.
func (s *ConversationService) attachLatestMessage(ctx context.Context, conv *models.Conversation) error {
	var latest models.Message
	err := s.db.WithContext(ctx).
		Preload("Sender").
		Where("conversation_id = ?", conv.ID).
		Order("created_at DESC").
		First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			conv.Messages = nil
			return nil
		}
		return err
	}
	conv.Messages = []models.Message{latest}
	return nil
}

func hasDuplicateIDs(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}
