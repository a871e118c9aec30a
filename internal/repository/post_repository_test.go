package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/yatube/internal/model"
)

func ids(posts []*model.Post) []uint {
	out := make([]uint, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestPostRepository_ListOrdersNewestFirstWithIDTieBreak(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := seedUser(t, db, "leo")

	var created []uint
	for i := 0; i < 4; i++ {
		p := &model.Post{Text: "same second", AuthorID: author.ID, CreatedAt: fixedTime}
		require.NoError(t, repo.Create(ctx, p))
		created = append(created, p.ID)
	}
	older := &model.Post{Text: "older", AuthorID: author.ID, CreatedAt: fixedTime.Add(-1)}
	require.NoError(t, repo.Create(ctx, older))

	first, err := repo.List(ctx, PostFilter{}, 0, 10)
	require.NoError(t, err)
	second, err := repo.List(ctx, PostFilter{}, 0, 10)
	require.NoError(t, err)

	want := []uint{created[3], created[2], created[1], created[0], older.ID}
	assert.Equal(t, want, ids(first))
	assert.Equal(t, ids(first), ids(second))
}

func TestPostRepository_SubscriberFilterDeduplicates(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	subs := NewSubscriptionRepository(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "viewer")
	author := seedUser(t, db, "author")
	other := seedUser(t, db, "other")
	group := seedGroup(t, db, "g")

	both := seedPosts(t, db, author, group, 2)
	authorOnly := seedPosts(t, db, author, nil, 1)
	groupOnly := seedPosts(t, db, other, group, 3)
	seedPosts(t, db, other, nil, 4)

	require.NoError(t, subs.Create(ctx, viewer.ID, model.KindAuthor, author.ID))
	require.NoError(t, subs.Create(ctx, viewer.ID, model.KindGroup, group.ID))

	f := PostFilter{SubscriberID: viewer.ID}
	cnt, err := repo.Count(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(6), cnt)

	got, err := repo.List(ctx, f, 0, 100)
	require.NoError(t, err)
	var want []uint
	for _, p := range append(append(both, authorOnly...), groupOnly...) {
		want = append(want, p.ID)
	}
	assert.ElementsMatch(t, want, ids(got))

	page2, err := repo.List(ctx, f, 4, 4)
	require.NoError(t, err)
	assert.Len(t, page2, 2)
}

func TestPostRepository_SubscriberSubqueriesUseCallerContext(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	subs := NewSubscriptionRepository(db)
	ctx := context.Background()

	viewer := seedUser(t, db, "viewer")
	author := seedUser(t, db, "author")
	other := seedUser(t, db, "other")
	group := seedGroup(t, db, "g")
	seedPosts(t, db, author, group, 2)
	seedPosts(t, db, author, nil, 1)
	seedPosts(t, db, other, group, 3)
	require.NoError(t, subs.Create(ctx, viewer.ID, model.KindAuthor, author.ID))
	require.NoError(t, subs.Create(ctx, viewer.ID, model.KindGroup, group.ID))

	// outer clauses must not leak into the subqueries
	cnt, err := repo.Count(ctx, PostFilter{SubscriberID: viewer.ID, AuthorID: author.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), cnt)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = repo.Count(cancelled, PostFilter{SubscriberID: viewer.ID})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = repo.List(cancelled, PostFilter{SubscriberID: viewer.ID}, 0, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPostRepository_AuthorAndGroupFilters(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")
	g := seedGroup(t, db, "g")
	seedPosts(t, db, a, g, 2)
	seedPosts(t, db, b, nil, 3)

	cnt, err := repo.Count(ctx, PostFilter{AuthorID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), cnt)

	got, err := repo.List(ctx, PostFilter{GroupID: g.ID}, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Author.Username)
	require.NotNil(t, got[0].Group)
	assert.Equal(t, "g", got[0].Group.Slug)
}

func TestPostRepository_UpdateKeepsCreatedAt(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	a := seedUser(t, db, "a")
	p := &model.Post{Text: "v1", AuthorID: a.ID, CreatedAt: fixedTime}
	require.NoError(t, repo.Create(ctx, p))

	p.Text = "v2"
	p.CreatedAt = fixedTime.AddDate(1, 0, 0)
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Text)
	assert.True(t, got.CreatedAt.Equal(fixedTime))

	assert.ErrorIs(t, repo.Update(ctx, &model.Post{ID: 9999, Text: "x"}), ErrNotFound)
}

func TestPostRepository_DeleteCascadesComments(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()
	a := seedUser(t, db, "a")
	p := seedPosts(t, db, a, nil, 1)[0]
	require.NoError(t, comments.Create(ctx, &model.Comment{PostID: p.ID, AuthorID: a.ID, Text: "hi"}))

	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	left, err := comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	assert.ErrorIs(t, repo.Delete(ctx, p.ID), ErrNotFound)
}

func TestPostRepository_GetByIDLoadsCommentsOldestFirst(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")
	p := seedPosts(t, db, a, nil, 1)[0]
	require.NoError(t, comments.Create(ctx, &model.Comment{PostID: p.ID, AuthorID: b.ID, Text: "first", CreatedAt: fixedTime}))
	require.NoError(t, comments.Create(ctx, &model.Comment{PostID: p.ID, AuthorID: a.ID, Text: "second", CreatedAt: fixedTime.Add(1)}))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "first", got.Comments[0].Text)
	assert.Equal(t, "b", got.Comments[0].Author.Username)
	assert.Equal(t, "second", got.Comments[1].Text)
}
