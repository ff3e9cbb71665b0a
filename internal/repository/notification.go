package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"agrodrone-automation/internal/models"

	"go.uber.org/zap"
)

// PostgresNotificationRepository 通知仓库实现
type PostgresNotificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresNotificationRepository 创建通知仓库
func NewPostgresNotificationRepository(db *sql.DB, logger *zap.Logger) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{
		db:     db,
		logger: logger,
	}
}

// 确保实现了接口
var _ NotificationRepository = (*PostgresNotificationRepository)(nil)

const insertNotificationQuery = `
	INSERT INTO notifications (
		title,
		message,
		notification_type,
		is_read,
		channel,
		user_id,
		alert_id,
		sensor_id,
		actuator_id,
		zone_id,
		created_at,
		read_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
	)
	RETURNING id
`

// CreateNotification 持久化单条通知并回填 ID
func (r *PostgresNotificationRepository) CreateNotification(ctx context.Context, notif *models.Notification) error {
	if err := validateNotification(notif); err != nil {
		return err
	}

	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowContext(ctx, insertNotificationQuery, notificationArgs(notif)...).Scan(&notif.ID)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// CreateNotificationBatch 在单事务中持久化一批通知并回填 ID
// 任意一条失败则整批回滚
func (r *PostgresNotificationRepository) CreateNotificationBatch(ctx context.Context, notifs []*models.Notification) error {
	if len(notifs) == 0 {
		return nil
	}
	for _, notif := range notifs {
		if err := validateNotification(notif); err != nil {
			return err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	now := time.Now().UTC()
	for _, notif := range notifs {
		if notif.CreatedAt.IsZero() {
			notif.CreatedAt = now
		}
		if err := tx.QueryRowContext(ctx, insertNotificationQuery, notificationArgs(notif)...).Scan(&notif.ID); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to create notification for user %d: %w", notif.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit notification batch: %w", err)
	}

	r.logger.Debug("Notification batch created",
		zap.Int("count", len(notifs)),
	)

	return nil
}

// MarkAllReadForUser 将用户的全部未读通知置为已读
// 返回修改行数；没有未读时不产生写入，重复调用幂等
func (r *PostgresNotificationRepository) MarkAllReadForUser(ctx context.Context, userID int64, readAt time.Time) (int64, error) {
	if userID <= 0 {
		return 0, fmt.Errorf("user_id is required")
	}

	query := `
		UPDATE notifications
		SET is_read = TRUE,
		    read_at = $1
		WHERE user_id = $2
		  AND is_read = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, readAt, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

func validateNotification(notif *models.Notification) error {
	if notif == nil {
		return fmt.Errorf("notification is required")
	}
	if notif.UserID <= 0 {
		return fmt.Errorf("user_id is required")
	}
	if notif.Title == "" {
		return fmt.Errorf("title is required")
	}
	if notif.Message == "" {
		return fmt.Errorf("message is required")
	}
	return nil
}

func notificationArgs(notif *models.Notification) []interface{} {
	var channel sql.NullString
	if notif.Channel != nil {
		channel = sql.NullString{String: *notif.Channel, Valid: true}
	}
	var alertID, sensorID, actuatorID, zoneID sql.NullInt64
	if notif.AlertID != nil {
		alertID = sql.NullInt64{Int64: *notif.AlertID, Valid: true}
	}
	if notif.SensorID != nil {
		sensorID = sql.NullInt64{Int64: *notif.SensorID, Valid: true}
	}
	if notif.ActuatorID != nil {
		actuatorID = sql.NullInt64{Int64: *notif.ActuatorID, Valid: true}
	}
	if notif.ZoneID != nil {
		zoneID = sql.NullInt64{Int64: *notif.ZoneID, Valid: true}
	}

	return []interface{}{
		notif.Title,
		notif.Message,
		notif.NotificationType,
		notif.IsRead,
		channel,
		notif.UserID,
		alertID,
		sensorID,
		actuatorID,
		zoneID,
		notif.CreatedAt,
		notif.ReadAt,
	}
}
