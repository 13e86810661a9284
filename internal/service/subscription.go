package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// SubscriptionService manages who follows which author
type SubscriptionService struct {
	db *gorm.DB
}

// NewSubscriptionService creates a new SubscriptionService instance
func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe makes userID follow authorID and returns the author
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID uint) (*models.User, error) {
	if userID == authorID {
		return nil, NewValidationError("author", "You cannot subscribe to yourself.")
	}

	var author models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&author, authorID).Error; err != nil {
			return wrapDBError(err, "get author", "user", authorID)
		}

		var n int64
		err := tx.Model(&models.UserSubscription{}).
			Where("user_id = ? AND author_id = ?", userID, authorID).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n > 0 {
			return alreadySubscribed()
		}

		sub := models.UserSubscription{UserID: userID, AuthorID: authorID}
		if err := tx.Create(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return alreadySubscribed()
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, wrapDBError(err, "subscribe", "user", authorID)
	}

	log.Info().Uint("user_id", userID).Uint("author_id", authorID).Msg("subscribed")
	return &author, nil
}

// Unsubscribe removes the subscription of userID to authorID
func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	var author models.User
	if err := s.db.WithContext(ctx).First(&author, authorID).Error; err != nil {
		return wrapDBError(err, "get author", "user", authorID)
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.UserSubscription{})
	if res.Error != nil {
		return wrapDBError(res.Error, "unsubscribe", "user", authorID)
	}
	if res.RowsAffected == 0 {
		return &ConflictError{Message: "You are not subscribed to this user.", Absent: true}
	}

	log.Info().Uint("user_id", userID).Uint("author_id", authorID).Msg("unsubscribed")
	return nil
}

// Subscriptions returns one page of the authors userID follows, ordered by
// when the subscription was made, and the total count.
func (s *SubscriptionService) Subscriptions(ctx context.Context, userID uint, page PageRequest) ([]models.User, int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.UserSubscription{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		return nil, 0, wrapDBError(err, "count subscriptions", "subscription", nil)
	}

	var authors []models.User
	err = s.db.WithContext(ctx).
		Joins("JOIN user_subscriptions ON user_subscriptions.author_id = users.id").
		Where("user_subscriptions.user_id = ?", userID).
		Order("user_subscriptions.id").
		Offset(page.offset()).
		Limit(page.Size).
		Find(&authors).Error
	if err != nil {
		return nil, 0, wrapDBError(err, "list subscriptions", "subscription", nil)
	}
	return authors, total, nil
}

// IsSubscribed reports which of authorIDs userID follows. A zero userID
// follows nobody.
func (s *SubscriptionService) IsSubscribed(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return result, nil
	}

	var followed []uint
	err := s.db.WithContext(ctx).Model(&models.UserSubscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &followed).Error
	if err != nil {
		return nil, wrapDBError(err, "check subscriptions", "subscription", nil)
	}
	for _, id := range followed {
		result[id] = true
	}
	return result, nil
}

func alreadySubscribed() error {
	return &ConflictError{Message: "You are already subscribed to this user."}
}
