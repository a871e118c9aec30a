package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/logger"
)

// SubscriptionService follows and unfollows authors and groups. Every operation is idempotent.
type SubscriptionService interface {
	// FollowAuthor is a silent no-op when the viewer names themselves.
	FollowAuthor(ctx context.Context, viewerID, username string) error
	// UnfollowAuthor is a no-op when no such edge (or no such user) exists.
	UnfollowAuthor(ctx context.Context, viewerID, username string) error
	FollowGroup(ctx context.Context, viewerID, slug string) error
	UnfollowGroup(ctx context.Context, viewerID, slug string) error
}

type subscriptionService struct {
	subs   repository.SubscriptionRepository
	users  repository.UserRepository
	groups repository.GroupRepository
}

func NewSubscriptionService(
	subs repository.SubscriptionRepository,
	users repository.UserRepository,
	groups repository.GroupRepository,
) SubscriptionService {
	return &subscriptionService{subs: subs, users: users, groups: groups}
}

func (s *subscriptionService) FollowAuthor(ctx context.Context, viewerID, username string) error {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return notFound(err, "user %q", username)
	}
	if author.ID == viewerID {
		logger.Debug("self-follow ignored", zap.String("user_id", viewerID))
		return nil
	}
	return s.subs.Create(ctx, viewerID, model.KindAuthor, author.ID)
}

func (s *subscriptionService) UnfollowAuthor(ctx context.Context, viewerID, username string) error {
	author, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.subs.Delete(ctx, viewerID, model.KindAuthor, author.ID)
}

func (s *subscriptionService) FollowGroup(ctx context.Context, viewerID, slug string) error {
	g, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return notFound(err, "group %q", slug)
	}
	return s.subs.Create(ctx, viewerID, model.KindGroup, g.ID)
}

func (s *subscriptionService) UnfollowGroup(ctx context.Context, viewerID, slug string) error {
	g, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return notFound(err, "group %q", slug)
	}
	return s.subs.Delete(ctx, viewerID, model.KindGroup, g.ID)
}
