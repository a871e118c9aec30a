package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/model"
)

// PostFilter narrows a feed query. Zero value matches every post.
type PostFilter struct {
	AuthorID string
	GroupID  string
	// SubscriberID selects posts whose author or group the subscriber follows.
	SubscriberID string
}

type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	GetByID(ctx context.Context, id uint) (*model.Post, error)
	Update(ctx context.Context, p *model.Post) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context, f PostFilter) (int64, error)
	// List returns posts newest first, ties broken by id descending.
	List(ctx context.Context, f PostFilter, offset, limit int) ([]*model.Post, error)
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	return r.db.WithContext(ctx).Omit("Author", "Group", "Comments").Create(p).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Comments.Author").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Update rewrites the editable fields only; CreatedAt and AuthorID never change.
func (r *postRepository) Update(ctx context.Context, p *model.Post) error {
	res := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"text":     p.Text,
			"group_id": p.GroupID,
			"image":    p.Image,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *postRepository) Count(ctx context.Context, f PostFilter) (int64, error) {
	var cnt int64
	err := scope(r.db.WithContext(ctx).Model(&model.Post{}), f).Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) List(ctx context.Context, f PostFilter, offset, limit int) ([]*model.Post, error) {
	var res []*model.Post
	err := scope(r.db.WithContext(ctx), f).
		Preload("Author").
		Preload("Group").
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

// scope applies the filter as a single WHERE clause. The subscriber case is one
// query over both follow kinds, so a post reachable twice is still one row.
func scope(db *gorm.DB, f PostFilter) *gorm.DB {
	if f.AuthorID != "" {
		db = db.Where("posts.author_id = ?", f.AuthorID)
	}
	if f.GroupID != "" {
		db = db.Where("posts.group_id = ?", f.GroupID)
	}
	if f.SubscriberID != "" {
		// subqueries share the caller's context but none of its clauses
		sub := db.Session(&gorm.Session{NewDB: true})
		authors := sub.Model(&model.Subscription{}).Select("target_id").
			Where("follower_id = ? AND kind = ?", f.SubscriberID, model.KindAuthor)
		groups := sub.Model(&model.Subscription{}).Select("target_id").
			Where("follower_id = ? AND kind = ?", f.SubscriberID, model.KindGroup)
		db = db.Where("posts.author_id IN (?) OR posts.group_id IN (?)", authors, groups)
	}
	return db
}
