package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestNotificationListByUserQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "message", "created_at"}).
		AddRow(2, 7, "New comment on your post: later", now).
		AddRow(1, 7, "New comment on your post: earlier", now.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "notifications" WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`)).
		WithArgs(uint(7), 20).
		WillReturnRows(rows)

	notifications, err := repo.ListByUser(context.Background(), 7, 20, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	require.Equal(t, uint(2), notifications[0].ID)
	require.Equal(t, "New comment on your post: later", notifications[0].Message)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationCreateInsert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO "notifications" ("user_id","message","created_at") VALUES ($1,$2,$3) RETURNING "id"`)).
		WithArgs(uint(3), "New comment on your post: hi", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	notification := &models.Notification{UserID: 3, Message: "New comment on your post: hi"}
	require.NoError(t, repo.Create(context.Background(), notification))
	require.Equal(t, uint(11), notification.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}
