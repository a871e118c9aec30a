package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/model"
)

type GroupRepository interface {
	Create(ctx context.Context, g *model.Group) error
	GetBySlug(ctx context.Context, slug string) (*model.Group, error)
	List(ctx context.Context) ([]*model.Group, error)
	// DeleteBySlug removes the group; its posts survive with the group cleared.
	DeleteBySlug(ctx context.Context, slug string) error
}

type groupRepository struct{ db *gorm.DB }

func NewGroupRepository(db *gorm.DB) GroupRepository { return &groupRepository{db: db} }

func (r *groupRepository) Create(ctx context.Context, g *model.Group) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&model.Group{}).Where("slug = ?", g.Slug).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return ErrDuplicate
	}
	return translate(r.db.WithContext(ctx).Create(g).Error)
}

func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	var g model.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&g).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *groupRepository) List(ctx context.Context) ([]*model.Group, error) {
	var res []*model.Group
	err := r.db.WithContext(ctx).Order("title ASC").Find(&res).Error
	return res, err
}

func (r *groupRepository) DeleteBySlug(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g model.Group
		if err := tx.Where("slug = ?", slug).First(&g).Error; err != nil {
			return translate(err)
		}
		if err := tx.Model(&model.Post{}).Where("group_id = ?", g.ID).Update("group_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("kind = ? AND target_id = ?", model.KindGroup, g.ID).Delete(&model.Subscription{}).Error; err != nil {
			return err
		}
		return tx.Delete(&g).Error
	})
}
