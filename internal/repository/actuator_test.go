package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupActuatorMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresActuatorRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewPostgresActuatorRepository(db, zap.NewNop())
	return db, mock, repo
}

func TestGetActuator_Success(t *testing.T) {
	db, mock, repo := setupActuatorMockDB(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "name", "actuator_type", "model", "is_on", "auto_mode", "zone_id", "created_at", "updated_at",
	}).
		AddRow(20, "pump-a", "irrigation", "HydroFlow 3000", false, true, 5, now, now)

	mock.ExpectQuery(`SELECT`).
		WithArgs(int64(20)).
		WillReturnRows(rows)

	actuator, err := repo.GetActuator(context.Background(), 20)

	require.NoError(t, err)
	assert.Equal(t, int64(20), actuator.ID)
	assert.Equal(t, "pump-a", actuator.Name)
	require.NotNil(t, actuator.Model)
	assert.Equal(t, "HydroFlow 3000", *actuator.Model)
	assert.False(t, actuator.IsOn)
	assert.True(t, actuator.AutoMode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActuator_NotFound(t *testing.T) {
	db, mock, repo := setupActuatorMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetActuator(context.Background(), 99)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSetActuatorState_Success(t *testing.T) {
	db, mock, repo := setupActuatorMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE actuators`).
		WithArgs(true, int64(20)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SetActuatorState(context.Background(), 20, true)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetActuatorState_NotFoundRollsBack(t *testing.T) {
	db, mock, repo := setupActuatorMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE actuators`).
		WithArgs(false, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.SetActuatorState(context.Background(), 99, false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetActuatorState_InvalidID(t *testing.T) {
	db, _, repo := setupActuatorMockDB(t)
	defer db.Close()

	err := repo.SetActuatorState(context.Background(), 0, true)
	assert.Error(t, err)
}
