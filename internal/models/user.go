package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"warbler/pkg/utils"

	"gorm.io/gorm"
)

const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

var (
	ErrEmptyPassword = errors.New("password must not be empty")
	ErrMissingField  = errors.New("required field missing")
)

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"unique;not null;size:80" json:"username"`
	Email          string    `gorm:"unique;not null;size:120" json:"email"`
	Password       string    `gorm:"not null;size:255" json:"-"`
	ImageURL       string    `gorm:"type:text" json:"image_url"`
	HeaderImageURL string    `gorm:"type:text" json:"header_image_url"`
	Bio            string    `gorm:"type:text" json:"bio"`
	Location       string    `gorm:"size:100" json:"location"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser builds an unsaved user with a hashed password. The caller persists it.
func NewUser(username, email, password, imageURL string) (*User, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if imageURL == "" {
		imageURL = DefaultImageURL
	}

	return &User{
		Username:       username,
		Email:          email,
		Password:       hash,
		ImageURL:       imageURL,
		HeaderImageURL: DefaultHeaderImageURL,
	}, nil
}

// BeforeSave rejects rows the store would otherwise accept as empty strings.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: username", ErrMissingField)
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("%w: email", ErrMissingField)
	}
	if u.Password == "" {
		return fmt.Errorf("%w: password", ErrMissingField)
	}
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return utils.CheckPasswordHash(password, u.Password)
}

func (u *User) Avatar() string {
	if u.ImageURL == "" {
		return DefaultImageURL
	}
	return u.ImageURL
}

func (u *User) Header() string {
	if u.HeaderImageURL == "" {
		return DefaultHeaderImageURL
	}
	return u.HeaderImageURL
}

func (u User) String() string {
	return fmt.Sprintf("<User #%d: %s, %s>", u.ID, u.Username, u.Email)
}
