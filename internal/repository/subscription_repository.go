package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

type SubscriptionRepository interface {
	Add(ctx context.Context, userID, authorID uint) error
	Remove(ctx context.Context, userID, authorID uint) error
	Exists(ctx context.Context, userID, authorID uint) (bool, error)
	// ListAuthors pages through the authors userID follows, ordered by username
	ListAuthors(ctx context.Context, userID uint, offset, limit int) ([]models.User, int64, error)
	// Following reports which of authorIDs userID follows
	Following(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Add(ctx context.Context, userID, authorID uint) error {
	subscription := &models.Subscription{UserID: userID, AuthorID: authorID}
	return wrap("add subscription", r.db.WithContext(ctx).Omit("User", "Author").Create(subscription).Error)
}

func (r *subscriptionRepository) Remove(ctx context.Context, userID, authorID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return wrap("remove subscription", result.Error)
	}
	if result.RowsAffected == 0 {
		return wrap("remove subscription", ErrNotExists)
	}
	return nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, wrap("check subscription", err)
	}
	return count > 0, nil
}

func (r *subscriptionRepository) ListAuthors(ctx context.Context, userID uint, offset, limit int) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrap("count subscriptions", err)
	}

	var authors []models.User
	if err := query.
		Order("users.username").
		Order("users.id").
		Offset(offset).
		Limit(limit).
		Find(&authors).Error; err != nil {
		return nil, 0, wrap("list subscriptions", err)
	}
	return authors, total, nil
}

func (r *subscriptionRepository) Following(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	following := make(map[uint]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return following, nil
	}

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, wrap("list followed authors", err)
	}
	for _, id := range ids {
		following[id] = true
	}
	return following, nil
}
