package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/yatube/internal/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  "sqlmock",
		DriverName:           "postgres",
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestGroupRepository_GetBySlugNoRows(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "groups" WHERE slug = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug"}))

	_, err := NewGroupRepository(db).GetBySlug(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_CountPropagatesStoreFailure(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("connection reset by peer")
	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts"`).WillReturnError(boom)

	_, err := NewPostRepository(db).Count(context.Background(), PostFilter{SubscriberID: "viewer"})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_CreateUsesOnConflictDoNothing(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO "subscriptions" .* ON CONFLICT \("follower_id","kind","target_id"\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewSubscriptionRepository(db).Create(context.Background(), "v", model.KindAuthor, "a")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteRollsBackOnFailure(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("deadlock detected")
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`DELETE FROM "comments"`).WillReturnError(boom)
	mock.ExpectRollback()

	err := NewUserRepository(db).Delete(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
