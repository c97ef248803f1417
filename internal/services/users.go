package services

import (
	"context"
	"errors"
	"strings"

	"warbler/internal/models"

	"gorm.io/gorm"
)

type SignupInput struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

type ProfileInput struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
}

type UserService struct {
	db    *gorm.DB
	stats *StatsService
}

func NewUserService(db *gorm.DB, stats *StatsService) *UserService {
	return &UserService{
		db:    db,
		stats: stats,
	}
}

// Signup hashes the password and stores the new user. Duplicate or missing
// username/email surface as ErrIntegrity from the write itself.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	user, err := models.NewUser(in.Username, in.Email, in.Password, in.ImageURL)
	if err != nil {
		return nil, err
	}
	if err := s.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Create persists a user built with models.NewUser.
func (s *UserService) Create(ctx context.Context, user *models.User) error {
	return storeError(s.db.WithContext(ctx).Create(user).Error)
}

// Authenticate returns the user only when the password matches. Unknown
// usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, storeError(err)
	}
	return &user, nil
}

// List returns all users, or those whose username contains query. Matching
// is case-sensitive on every backend.
func (s *UserService) List(ctx context.Context, query string) ([]models.User, error) {
	var users []models.User
	db := s.db.WithContext(ctx).Order("id")
	if query = strings.TrimSpace(query); query != "" {
		db = db.Where(substringMatch(s.db.Dialector.Name()), query)
	}
	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile rewrites the editable fields after re-checking the password.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, password string, in ProfileInput) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	user.Username = in.Username
	user.Email = in.Email
	user.ImageURL = in.ImageURL
	user.HeaderImageURL = in.HeaderImageURL
	user.Bio = in.Bio
	user.Location = in.Location

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, storeError(err)
	}
	return user, nil
}

// Delete removes the user with their messages, likes and follow edges.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	var affected []uint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownMessages := func() *gorm.DB {
			return tx.Model(&models.Message{}).Select("id").Where("user_id = ?", id)
		}

		var likers []uint
		if err := tx.Model(&models.Like{}).Where("message_id IN (?)", ownMessages()).Distinct().Pluck("user_id", &likers).Error; err != nil {
			return err
		}
		var followers, followed []uint
		if err := tx.Model(&models.Follow{}).Where("user_being_followed_id = ?", id).Pluck("user_following_id", &followers).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Follow{}).Where("user_following_id = ?", id).Pluck("user_being_followed_id", &followed).Error; err != nil {
			return err
		}
		affected = append(append(append(affected, likers...), followers...), followed...)

		if err := tx.Where("user_id = ? OR message_id IN (?)", id, ownMessages()).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_being_followed_id = ? OR user_following_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.stats.Invalidate(ctx, append(affected, id)...)
	return nil
}

// substringMatch picks a position function so the match is neither
// case-folded nor subject to LIKE wildcards.
func substringMatch(dialect string) string {
	if dialect == "postgres" {
		return "strpos(username, ?) > 0"
	}
	return "instr(username, ?) > 0"
}
