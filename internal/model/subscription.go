package model

import (
	"time"
)

// SubscriptionKind tags what a subscription points at.
type SubscriptionKind string

const (
	KindAuthor SubscriptionKind = "author"
	KindGroup  SubscriptionKind = "group"
)

func (k SubscriptionKind) Valid() bool { return k == KindAuthor || k == KindGroup }

// Subscription is a follower's edge to an author or a group.
// TargetID holds users.id for KindAuthor and groups.id for KindGroup.
type Subscription struct {
	ID         string           `gorm:"primaryKey;type:varchar(36)"`
	FollowerID string           `gorm:"type:varchar(36);not null;index:idx_subscription_edge,unique"`
	Follower   User             `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Kind       SubscriptionKind `gorm:"type:varchar(16);not null;index:idx_subscription_edge,unique;index:idx_subscription_target"`
	TargetID   string           `gorm:"type:varchar(36);not null;index:idx_subscription_edge,unique;index:idx_subscription_target"`
	// unique (follower_id, kind, target_id): concurrent duplicate follows land one row
	CreatedAt time.Time
}

func (Subscription) TableName() string { return "subscriptions" }
