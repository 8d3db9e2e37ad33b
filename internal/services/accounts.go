package services

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/emilythestrangee/solarrank/backend/internal/cache"
	"github.com/emilythestrangee/solarrank/backend/internal/models"
)

const bcryptCost = 12

// AccountService orchestrates registration, login and the user-facing
// read paths (leaderboard, profiles).
type AccountService struct {
	db          *gorm.DB
	sessions    *SessionManager
	tokens      *TokenStore
	leaderboard *cache.TTL[[]models.User]
}

func NewAccountService(db *gorm.DB, sessions *SessionManager, tokens *TokenStore, leaderboardTTL time.Duration) *AccountService {
	return &AccountService{
		db:          db,
		sessions:    sessions,
		tokens:      tokens,
		leaderboard: cache.New[[]models.User](leaderboardTTL),
	}
}

// Register creates a user and issues their first token pair. User row
// and refresh token commit together.
func (s *AccountService) Register(name, email, password string) (*models.User, *TokenPair, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	var user models.User
	var pair *TokenPair

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", email).First(&existing).Error
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Rank is the join ordinal: current user count + 1.
		var count int64
		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}

		user = models.User{
			Name:     name,
			Email:    email,
			Password: string(hash),
			Role:     "user",
			Rank:     int(count) + 1,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		pair, err = s.sessions.Issue(tx, &user)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

// Login authenticates by email and password, then replaces the user's
// refresh session: all prior refresh tokens are revoked and a fresh
// pair issued, in one transaction. Unknown email and wrong password
// collapse to the same error so accounts cannot be enumerated.
func (s *AccountService) Login(email, password string) (*models.User, *TokenPair, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	var pair *TokenPair
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.tokens.RevokeAll(tx, user.ID); err != nil {
			return err
		}
		var err error
		pair, err = s.sessions.Issue(tx, &user)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

// VerifyUser resolves the user behind a verified access token.
func (s *AccountService) VerifyUser(id int) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Leaderboard returns all users ordered by total energy, read through
// the TTL cache. Results may be stale up to one cache window.
func (s *AccountService) Leaderboard() ([]models.User, error) {
	return s.leaderboard.Get(func() ([]models.User, error) {
		var users []models.User
		err := s.db.Order("total_energy DESC, rank ASC").Find(&users).Error
		return users, err
	})
}

// Profile looks a user up by name.
func (s *AccountService) Profile(name string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("name = ?", name).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the patch's set fields. Each present field maps
// to one parameterized column update; absent fields are left alone.
func (s *AccountService) UpdateProfile(id int, patch models.UpdateProfileRequest) (*models.User, error) {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.ProfileImage != nil {
		updates["profile_image"] = *patch.ProfileImage
	}
	if patch.Company != nil {
		updates["company"] = *patch.Company
	}

	if len(updates) > 0 {
		res := s.db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrUserNotFound
		}
	}

	return s.VerifyUser(id)
}
