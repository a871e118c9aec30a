package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/database"
)

type fixture struct {
	db       *gorm.DB
	users    repository.UserRepository
	groups   repository.GroupRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	subs     repository.SubscriptionRepository

	feed    FeedService
	follows SubscriptionService
	post    PostService
	comment CommentService
}

func newFixture(t *testing.T, pageSize int) *fixture {
	t.Helper()
	db, err := database.OpenMemory(uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &fixture{
		db:       db,
		users:    repository.NewUserRepository(db),
		groups:   repository.NewGroupRepository(db),
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
		subs:     repository.NewSubscriptionRepository(db),
	}
	f.feed = NewFeedService(f.posts, f.users, f.groups, f.subs, pageSize)
	f.follows = NewSubscriptionService(f.subs, f.users, f.groups)
	f.post = NewPostService(f.posts, f.groups)
	f.comment = NewCommentService(f.posts, f.comments)
	return f
}

func (f *fixture) user(t *testing.T, name string) *model.User {
	t.Helper()
	u := &model.User{Username: name, Password: "x"}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) group(t *testing.T, slug string) *model.Group {
	t.Helper()
	g := &model.Group{Title: slug, Slug: slug}
	require.NoError(t, f.groups.Create(context.Background(), g))
	return g
}

func (f *fixture) write(t *testing.T, author *model.User, group *model.Group, n int) []*model.Post {
	t.Helper()
	out := make([]*model.Post, 0, n)
	for i := 0; i < n; i++ {
		p := &model.Post{Text: fmt.Sprintf("%s #%d", author.Username, i), AuthorID: author.ID}
		if group != nil {
			p.GroupID = &group.ID
		}
		require.NoError(t, f.posts.Create(context.Background(), p))
		out = append(out, p)
	}
	return out
}
