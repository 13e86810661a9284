package service

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/media"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/storage"
)

const minPasswordLength = 8

// Registration is the input of Register
type Registration struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// UserService manages accounts, passwords and avatars
type UserService struct {
	db    *gorm.DB
	blobs storage.Store
	cost  int
}

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB, blobs storage.Store) *UserService {
	return &UserService{db: db, blobs: blobs, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost
func (s *UserService) WithHashCost(cost int) *UserService {
	s.cost = cost
	return s
}

// Register creates a user with the "user" role
func (s *UserService) Register(ctx context.Context, reg Registration) (*models.User, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Username = strings.TrimSpace(reg.Username)

	verr := &ValidationError{}
	for _, msg := range checkPassword(reg.Password) {
		verr.Add("password", msg)
	}

	var taken []models.User
	err := s.db.WithContext(ctx).
		Where("LOWER(email) = ? OR username = ?", strings.ToLower(reg.Email), reg.Username).
		Find(&taken).Error
	if err != nil {
		return nil, wrapDBError(err, "check user", "user", nil)
	}
	for _, u := range taken {
		if strings.EqualFold(u.Email, reg.Email) {
			verr.Add("email", "A user with that email already exists.")
		}
		if u.Username == reg.Username {
			verr.Add("username", "A user with that username already exists.")
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        reg.Email,
		Username:     reg.Username,
		FirstName:    strings.TrimSpace(reg.FirstName),
		LastName:     strings.TrimSpace(reg.LastName),
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, wrapDBError(err, "create user", "user", reg.Username)
	}

	log.Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return &user, nil
}

// Get returns a user by id
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, wrapDBError(err, "get user", "user", id)
	}
	return &user, nil
}

// List returns one page of users ordered by id and the total count
func (s *UserService) List(ctx context.Context, page PageRequest) ([]models.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "count users", "user", nil)
	}

	var users []models.User
	err := s.db.WithContext(ctx).Order("id").Offset(page.offset()).Limit(page.Size).Find(&users).Error
	if err != nil {
		return nil, 0, wrapDBError(err, "list users", "user", nil)
	}
	return users, total, nil
}

// SetPassword replaces the password of userID after checking the current one
func (s *UserService) SetPassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return NewValidationError("current_password", "Invalid password.")
	}
	if current == next {
		return NewValidationError("new_password", "The new password must differ from the current one.")
	}
	verr := &ValidationError{}
	for _, msg := range checkPassword(next) {
		verr.Add("new_password", msg)
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Model(user).Update("password_hash", string(hash)).Error
	if err != nil {
		return wrapDBError(err, "update password", "user", userID)
	}

	log.Info().Uint("user_id", userID).Msg("password changed")
	return nil
}

// SetAvatar stores a data-URI image as the avatar of userID and deletes the
// previous one.
func (s *UserService) SetAvatar(ctx context.Context, userID uint, dataURI string) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	img, err := media.DecodeDataURI(dataURI)
	if err != nil {
		return nil, NewValidationError("avatar", err.Error())
	}

	key, err := storeImage(ctx, s.blobs, avatarPrefix, img)
	if err != nil {
		return nil, err
	}

	previous := user.Avatar
	if err := s.db.WithContext(ctx).Model(user).Update("avatar", key).Error; err != nil {
		discardBlob(ctx, s.blobs, key)
		return nil, wrapDBError(err, "update avatar", "user", userID)
	}
	user.Avatar = key
	discardBlob(ctx, s.blobs, previous)

	return user, nil
}

// DeleteAvatar clears the avatar of userID
func (s *UserService) DeleteAvatar(ctx context.Context, userID uint) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.Avatar == "" {
		return nil
	}

	previous := user.Avatar
	if err := s.db.WithContext(ctx).Model(user).Update("avatar", "").Error; err != nil {
		return wrapDBError(err, "delete avatar", "user", userID)
	}
	discardBlob(ctx, s.blobs, previous)
	return nil
}

func checkPassword(password string) []string {
	var problems []string
	if utf8.RuneCountInString(password) < minPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	numeric := password != ""
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		problems = append(problems, "This password is entirely numeric.")
	}
	return problems
}
