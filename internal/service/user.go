package service

import (
	"context"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/repository"
)

// UserView is a user as seen by a viewer; viewer id 0 is anonymous
type UserView struct {
	User         models.User
	IsSubscribed bool
}

type UserService struct {
	users         repository.UserRepository
	subscriptions repository.SubscriptionRepository
	images        *ImageService
}

func NewUserService(users repository.UserRepository, subscriptions repository.SubscriptionRepository, images *ImageService) *UserService {
	return &UserService{users: users, subscriptions: subscriptions, images: images}
}

func (s *UserService) Get(ctx context.Context, viewerID, id uint) (*UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, viewerID, []models.User{*user})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *UserService) List(ctx context.Context, viewerID uint, offset, limit int) ([]UserView, int64, error) {
	users, total, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.views(ctx, viewerID, users)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// UpdateAvatar replaces the user's avatar with a data-URI upload
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, dataURI string) (string, error) {
	if dataURI == "" {
		return "", newValidationError("avatar", "this field is required")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	url, err := s.images.SaveDataURI(ctx, "users", "avatar", dataURI)
	if err != nil {
		return "", err
	}
	if err := s.users.UpdateAvatar(ctx, userID, url); err != nil {
		s.images.Remove(ctx, url)
		return "", err
	}
	s.images.Remove(ctx, user.Avatar)
	return url, nil
}

func (s *UserService) DeleteAvatar(ctx context.Context, userID uint) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.UpdateAvatar(ctx, userID, ""); err != nil {
		return err
	}
	s.images.Remove(ctx, user.Avatar)
	return nil
}

func (s *UserService) views(ctx context.Context, viewerID uint, users []models.User) ([]UserView, error) {
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	following, err := s.subscriptions.Following(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	views := make([]UserView, len(users))
	for i, u := range users {
		views[i] = UserView{User: u, IsSubscribed: following[u.ID]}
	}
	return views, nil
}
