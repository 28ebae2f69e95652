package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ask/internal/db"
	"ask/internal/models"
	"ask/internal/rating"
	"ask/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const MinPasswordLen = 6

var (
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Signup creates an account with a bcrypt password hash.
func Signup(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	switch {
	case username == "":
		return nil, invalid("username", "Username is required")
	case len(username) > 150:
		return nil, invalid("username", "Username is too long")
	case len(password) < MinPasswordLen:
		return nil, invalid("password", fmt.Sprintf("Password must be at least %d characters", MinPasswordLen))
	}

	conn := db.DB.WithContext(ctx)

	var count int64
	if err := conn.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("could not check username: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
	}
	if err := conn.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	InvalidateListings()
	return &user, nil
}

// Authenticate checks credentials and returns the matching user.
func Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := db.DB.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("could not load user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := db.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not load user %d: %w", id, err)
	}
	return &user, nil
}

func ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := db.DB.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("could not list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes the account in one transaction: the user row is locked
// exclusively, every vote is retracted through the ledger so each rating
// drops the user's contribution, questions and answers are detached, and the
// user row goes. Votes cast concurrently either finish before the lock is
// granted (and are retracted here) or find the user gone.
func DeleteUser(ctx context.Context, engine *rating.Engine, userID uint) error {
	var retracted int
	err := db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&user, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		if err != nil {
			return err
		}

		retracted, err = engine.Bind(rating.NewGormLedger(tx)).RetractAll(ctx, userID)
		if err != nil {
			return fmt.Errorf("could not retract votes: %w", err)
		}

		if err := tx.Model(&models.Question{}).Where("author_id = ?", userID).
			Update("author_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Answer{}).Where("author_id = ?", userID).
			Update("author_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("could not delete user %d: %w", userID, err)
	}

	InvalidateListings()
	slog.InfoContext(ctx, "User deleted", "user_id", userID, "votes_retracted", retracted)
	return nil
}

// InvalidateListings drops cached read-only listings after a write.
func InvalidateListings() {
	utils.GetCache().Purge()
}
