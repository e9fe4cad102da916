package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/whogoodluck/chatapp/models"
)

// HashPassword hashes a plaintext password with bcrypt. The salt is
// generated per password by bcrypt itself.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches the stored hash. It
// only accepts or rejects, it never says what part mismatched.
func ComparePassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// UserService implements account creation, lookup and profile mutation.
type UserService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewUserService(db *gorm.DB, logger *zap.SugaredLogger) *UserService {
	return &UserService{db: db, logger: logger}
}

// Create registers a new account. The username is derived from the local
// part of the email. A duplicate email fails with ErrAlreadyExists.
func (s *UserService) Create(ctx context.Context, email, fullName, password string) (*models.User, error) {
	db := s.db.WithContext(ctx)

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("user with email %q: %w", email, ErrAlreadyExists)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:       uuid.New().String(),
		Email:    email,
		Username: strings.SplitN(email, "@", 2)[0],
		FullName: fullName,
		Password: hash,
		LastSeen: time.Now(),
	}

	if err := db.Create(&user).Error; err != nil {
		// lookup-then-create can still lose the race on the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("user with email %q: %w", email, ErrAlreadyExists)
		}
		return nil, err
	}

	s.logger.Infof("created user %s (%s)", user.Username, user.ID)

	return &user, nil
}

// Authenticate checks the email/password pair and returns the matching
// user. Both an unknown email and a wrong password fail with
// ErrUnauthorized so callers cannot tell which field was wrong.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if !ComparePassword(password, user.Password) {
		return nil, ErrUnauthorized
	}

	return &user, nil
}

// GetByID fetches a single user profile.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// Search finds users whose username or full name contains the query,
// case-insensitively. The caller is excluded from the result so the
// invite flow never offers the user to themselves.
func (s *UserService) Search(ctx context.Context, callerID, query string) ([]models.User, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var users []models.User
	err := s.db.WithContext(ctx).
		Where("id <> ?", callerID).
		Where("LOWER(username) LIKE ? OR LOWER(full_name) LIKE ?", pattern, pattern).
		Order("username").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

// ProfileUpdate carries the optional profile fields; nil means keep.
type ProfileUpdate struct {
	Username *string
	FullName *string
	Avatar   *string
}

// UpdateProfile applies the provided fields to the user. A username that
// collides with another account fails with ErrAlreadyExists.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{}
	if update.Username != nil {
		changes["username"] = *update.Username
	}
	if update.FullName != nil {
		changes["full_name"] = *update.FullName
	}
	if update.Avatar != nil {
		changes["avatar"] = *update.Avatar
	}
	if len(changes) == 0 {
		return user, nil
	}

	err = s.db.WithContext(ctx).Model(user).Updates(changes).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("username taken: %w", ErrAlreadyExists)
		}
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ChangePassword verifies the current password before storing a hash of
// the new one.
func (s *UserService) ChangePassword(ctx context.Context, id, current, next string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !ComparePassword(current, user.Password) {
		return ErrUnauthorized
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(user).Update("password", hash).Error
}

// SetOnline flips the online flag and stamps last_seen. The auth layer
// calls this on login and logout so presence is an explicit mutation,
// not ambient state.
func (s *UserService) SetOnline(ctx context.Context, id string, online bool) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_online": online,
			"last_seen": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}
