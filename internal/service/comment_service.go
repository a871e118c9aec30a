package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
)

type CommentService interface {
	Add(ctx context.Context, viewerID string, postID uint, form CommentForm) (*model.Comment, error)
}

type commentService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
}

func NewCommentService(posts repository.PostRepository, comments repository.CommentRepository) CommentService {
	return &commentService{posts: posts, comments: comments}
}

func (s *commentService) Add(ctx context.Context, viewerID string, postID uint, form CommentForm) (*model.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, notFound(err, "post %d", postID)
	}
	if err := validateForm(form); err != nil {
		return nil, err
	}
	c := &model.Comment{PostID: postID, AuthorID: viewerID, Text: strings.TrimSpace(form.Text)}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}
