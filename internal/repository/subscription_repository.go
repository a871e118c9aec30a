package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/yatube/internal/model"
)

// SubscriptionRepository stores follower -> (author | group) edges.
type SubscriptionRepository interface {
	Create(ctx context.Context, followerID string, kind model.SubscriptionKind, targetID string) error
	Delete(ctx context.Context, followerID string, kind model.SubscriptionKind, targetID string) error
	Exists(ctx context.Context, followerID string, kind model.SubscriptionKind, targetID string) (bool, error)
	Count(ctx context.Context, followerID string, kind model.SubscriptionKind) (int64, error)
	CountFollowers(ctx context.Context, kind model.SubscriptionKind, targetID string) (int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, followerID string, kind model.SubscriptionKind, targetID string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	s := &model.Subscription{ID: uuid.New().String(), FollowerID: followerID, Kind: kind, TargetID: targetID}
	// a repeated follow is absorbed by the unique index
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "kind"}, {Name: "target_id"}},
			DoNothing: true,
		}).
		Create(s).Error
}

func (r *subscriptionRepository) Delete(ctx context.Context, followerID string, kind model.SubscriptionKind, targetID string) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND kind = ? AND target_id = ?", followerID, kind, targetID).
		Delete(&model.Subscription{}).Error
}

func (r *subscriptionRepository) Exists(ctx context.Context, followerID string, kind model.SubscriptionKind, targetID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("follower_id = ? AND kind = ? AND target_id = ?", followerID, kind, targetID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *subscriptionRepository) Count(ctx context.Context, followerID string, kind model.SubscriptionKind) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("follower_id = ? AND kind = ?", followerID, kind).
		Count(&cnt).Error
	return cnt, err
}

func (r *subscriptionRepository) CountFollowers(ctx context.Context, kind model.SubscriptionKind, targetID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("kind = ? AND target_id = ?", kind, targetID).
		Count(&cnt).Error
	return cnt, err
}
