package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
)

type PostService interface {
	Create(ctx context.Context, viewerID string, form PostForm) (*model.Post, error)
	Get(ctx context.Context, id uint) (*model.Post, error)
	// Edit and Delete return ErrForbidden (with the post) when the viewer is not the author.
	Edit(ctx context.Context, viewerID string, id uint, form PostForm) (*model.Post, error)
	Delete(ctx context.Context, viewerID string, id uint) (*model.Post, error)
	Groups(ctx context.Context) ([]*model.Group, error)
}

type postService struct {
	posts  repository.PostRepository
	groups repository.GroupRepository
}

func NewPostService(posts repository.PostRepository, groups repository.GroupRepository) PostService {
	return &postService{posts: posts, groups: groups}
}

func (s *postService) Create(ctx context.Context, viewerID string, form PostForm) (*model.Post, error) {
	groupID, err := s.resolve(ctx, form)
	if err != nil {
		return nil, err
	}
	p := &model.Post{Text: strings.TrimSpace(form.Text), AuthorID: viewerID, GroupID: groupID}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

func (s *postService) Get(ctx context.Context, id uint) (*model.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "post %d", id)
	}
	return p, nil
}

func (s *postService) Edit(ctx context.Context, viewerID string, id uint, form PostForm) (*model.Post, error) {
	p, err := s.owned(ctx, viewerID, id)
	if err != nil {
		return p, err
	}
	groupID, err := s.resolve(ctx, form)
	if err != nil {
		return p, err
	}
	p.Text = strings.TrimSpace(form.Text)
	p.GroupID = groupID
	if err := s.posts.Update(ctx, p); err != nil {
		return p, fmt.Errorf("update post %d: %w", id, err)
	}
	return p, nil
}

func (s *postService) Delete(ctx context.Context, viewerID string, id uint) (*model.Post, error) {
	p, err := s.owned(ctx, viewerID, id)
	if err != nil {
		return p, err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return p, notFound(err, "post %d", id)
	}
	return p, nil
}

func (s *postService) Groups(ctx context.Context) ([]*model.Group, error) {
	return s.groups.List(ctx)
}

func (s *postService) owned(ctx context.Context, viewerID string, id uint) (*model.Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != viewerID {
		return p, ErrForbidden
	}
	return p, nil
}

// resolve validates the form and turns the group slug into an id.
func (s *postService) resolve(ctx context.Context, form PostForm) (*string, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}
	if form.Group == "" {
		return nil, nil
	}
	g, err := s.groups.GetBySlug(ctx, form.Group)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fieldError("group", "Select a valid choice.")
	}
	if err != nil {
		return nil, err
	}
	return &g.ID, nil
}
