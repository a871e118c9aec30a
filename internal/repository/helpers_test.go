package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/pkg/database"
)

func setupDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := database.OpenMemory(uuid.NewString())
	require.NoError(tb, err)
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedUser(tb testing.TB, db *gorm.DB, username string) *model.User {
	tb.Helper()
	u := &model.User{Username: username, Password: "p"}
	require.NoError(tb, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func seedGroup(tb testing.TB, db *gorm.DB, slug string) *model.Group {
	tb.Helper()
	g := &model.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	require.NoError(tb, NewGroupRepository(db).Create(context.Background(), g))
	return g
}

func seedPosts(tb testing.TB, db *gorm.DB, author *model.User, group *model.Group, n int) []*model.Post {
	tb.Helper()
	repo := NewPostRepository(db)
	out := make([]*model.Post, 0, n)
	for i := 0; i < n; i++ {
		p := &model.Post{Text: fmt.Sprintf("post %d by %s", i, author.Username), AuthorID: author.ID}
		if group != nil {
			p.GroupID = &group.ID
		}
		require.NoError(tb, repo.Create(context.Background(), p))
		out = append(out, p)
	}
	return out
}

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
