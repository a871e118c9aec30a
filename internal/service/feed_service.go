package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/paginator"
)

// FeedPage is one page of posts plus its position in the whole feed.
type FeedPage struct {
	Posts []*model.Post
	Page  paginator.Page
}

type GroupFeed struct {
	FeedPage
	Group     *model.Group
	Following bool
	Followers int64
}

type AuthorFeed struct {
	FeedPage
	Author    *model.User
	Following bool
	// PostCount is the author's total, independent of the page shown.
	PostCount int64
	Followers int64
	Self      bool
}

// FeedService composes the four post feeds. viewerID is empty for anonymous callers.
type FeedService interface {
	Home(ctx context.Context, page string) (*FeedPage, error)
	Group(ctx context.Context, viewerID, slug, page string) (*GroupFeed, error)
	Author(ctx context.Context, viewerID, username, page string) (*AuthorFeed, error)
	Subscriptions(ctx context.Context, viewerID, page string) (*FeedPage, error)
}

type feedService struct {
	posts  repository.PostRepository
	users  repository.UserRepository
	groups repository.GroupRepository
	subs   repository.SubscriptionRepository
	pager  paginator.Paginator
}

func NewFeedService(
	posts repository.PostRepository,
	users repository.UserRepository,
	groups repository.GroupRepository,
	subs repository.SubscriptionRepository,
	pageSize int,
) FeedService {
	return &feedService{posts: posts, users: users, groups: groups, subs: subs, pager: paginator.New(pageSize)}
}

func (s *feedService) Home(ctx context.Context, page string) (*FeedPage, error) {
	return s.list(ctx, repository.PostFilter{}, page)
}

func (s *feedService) Group(ctx context.Context, viewerID, slug, page string) (*GroupFeed, error) {
	g, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "group %q", slug)
	}
	fp, err := s.list(ctx, repository.PostFilter{GroupID: g.ID}, page)
	if err != nil {
		return nil, err
	}
	out := &GroupFeed{FeedPage: *fp, Group: g}
	if out.Followers, err = s.subs.CountFollowers(ctx, model.KindGroup, g.ID); err != nil {
		return nil, err
	}
	if viewerID != "" {
		if out.Following, err = s.subs.Exists(ctx, viewerID, model.KindGroup, g.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *feedService) Author(ctx context.Context, viewerID, username, page string) (*AuthorFeed, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err, "user %q", username)
	}
	fp, err := s.list(ctx, repository.PostFilter{AuthorID: u.ID}, page)
	if err != nil {
		return nil, err
	}
	out := &AuthorFeed{FeedPage: *fp, Author: u, PostCount: fp.Page.Count, Self: viewerID == u.ID}
	if out.Followers, err = s.subs.CountFollowers(ctx, model.KindAuthor, u.ID); err != nil {
		return nil, err
	}
	if viewerID != "" && !out.Self {
		if out.Following, err = s.subs.Exists(ctx, viewerID, model.KindAuthor, u.ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Subscriptions is the union of posts by followed authors and posts in followed
// groups. The union is resolved by the store in one query, then paginated.
func (s *feedService) Subscriptions(ctx context.Context, viewerID, page string) (*FeedPage, error) {
	if viewerID == "" {
		return nil, ErrForbidden
	}
	return s.list(ctx, repository.PostFilter{SubscriberID: viewerID}, page)
}

func (s *feedService) list(ctx context.Context, f repository.PostFilter, page string) (*FeedPage, error) {
	count, err := s.posts.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	pg := s.pager.Page(page, count)
	if count == 0 {
		return &FeedPage{Posts: []*model.Post{}, Page: pg}, nil
	}
	posts, err := s.posts.List(ctx, f, pg.Offset(), pg.Limit())
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return &FeedPage{Posts: posts, Page: pg}, nil
}

// notFound maps repository misses onto ErrNotFound and wraps anything else.
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
