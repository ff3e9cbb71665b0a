package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"agrodrone-automation/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupNotificationMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresNotificationRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewPostgresNotificationRepository(db, zap.NewNop())
	return db, mock, repo
}

func testNotification(userID int64) *models.Notification {
	return &models.Notification{
		Title:            "Alert (critical) in zone 5",
		Message:          "Anomalous temperature reading: 35",
		NotificationType: models.NotificationTypeAlert,
		UserID:           userID,
	}
}

func TestCreateNotification_Success(t *testing.T) {
	db, mock, repo := setupNotificationMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO notifications`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	notif := testNotification(7)
	err := repo.CreateNotification(context.Background(), notif)

	require.NoError(t, err)
	assert.Equal(t, int64(42), notif.ID)
	assert.False(t, notif.CreatedAt.IsZero())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNotification_Validation(t *testing.T) {
	db, _, repo := setupNotificationMockDB(t)
	defer db.Close()

	err := repo.CreateNotification(context.Background(), nil)
	assert.Error(t, err)

	err = repo.CreateNotification(context.Background(), &models.Notification{Title: "t", Message: "m"})
	assert.Error(t, err, "missing user_id")

	err = repo.CreateNotification(context.Background(), &models.Notification{UserID: 7, Message: "m"})
	assert.Error(t, err, "missing title")
}

func TestCreateNotificationBatch_SingleTransaction(t *testing.T) {
	db, mock, repo := setupNotificationMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO notifications`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO notifications`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	notifs := []*models.Notification{testNotification(1), testNotification(2)}
	err := repo.CreateNotificationBatch(context.Background(), notifs)

	require.NoError(t, err)
	assert.Equal(t, int64(1), notifs[0].ID)
	assert.Equal(t, int64(2), notifs[1].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNotificationBatch_RollbackOnFailure(t *testing.T) {
	db, mock, repo := setupNotificationMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO notifications`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO notifications`).
		WillReturnError(fmt.Errorf("constraint violation"))
	mock.ExpectRollback()

	notifs := []*models.Notification{testNotification(1), testNotification(2)}
	err := repo.CreateNotificationBatch(context.Background(), notifs)

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNotificationBatch_Empty(t *testing.T) {
	db, _, repo := setupNotificationMockDB(t)
	defer db.Close()

	err := repo.CreateNotificationBatch(context.Background(), nil)
	assert.NoError(t, err)
}

func TestMarkAllReadForUser(t *testing.T) {
	db, mock, repo := setupNotificationMockDB(t)
	defer db.Close()

	readAt := time.Now().UTC()
	mock.ExpectExec(`UPDATE notifications`).
		WithArgs(readAt, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := repo.MarkAllReadForUser(context.Background(), 7, readAt)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAllReadForUser_InvalidUser(t *testing.T) {
	db, _, repo := setupNotificationMockDB(t)
	defer db.Close()

	_, err := repo.MarkAllReadForUser(context.Background(), 0, time.Now())
	assert.Error(t, err)
}
