package notifier

import (
	"context"
	"fmt"
	"time"

	"agrodrone-automation/internal/metrics"
	"agrodrone-automation/internal/models"
	"agrodrone-automation/internal/repository"

	"go.uber.org/zap"
)

// Dispatcher 通知分发器
// 负责把告警、规则执行、报表状态变化扇出成逐用户的通知行
type Dispatcher struct {
	notifRepo repository.NotificationRepository
	logger    *zap.Logger
}

// NewDispatcher 创建通知分发器
func NewDispatcher(notifRepo repository.NotificationRepository, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifRepo: notifRepo,
		logger:    logger,
	}
}

// Refs 通知的可选关联引用
type Refs struct {
	Channel    *string
	AlertID    *int64
	SensorID   *int64
	ActuatorID *int64
	ZoneID     *int64
}

// NotifyUser 给单个用户创建一条未读通知
// notificationType 为空时默认 system
func (d *Dispatcher) NotifyUser(
	ctx context.Context,
	userID int64,
	title string,
	message string,
	notificationType string,
	refs *Refs,
) (*models.Notification, error) {
	notif := buildNotification(userID, title, message, notificationType, refs)

	if err := d.notifRepo.CreateNotification(ctx, notif); err != nil {
		return nil, fmt.Errorf("failed to notify user %d: %w", userID, err)
	}

	metrics.NotificationsCreated.WithLabelValues(notif.NotificationType).Inc()
	return notif, nil
}

// NotifyUsers 给多个用户创建内容一致的通知（同一时间戳，单事务批量提交）
func (d *Dispatcher) NotifyUsers(
	ctx context.Context,
	userIDs []int64,
	title string,
	message string,
	notificationType string,
	refs *Refs,
) ([]*models.Notification, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	notifs := make([]*models.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		notif := buildNotification(userID, title, message, notificationType, refs)
		notif.CreatedAt = now
		notifs = append(notifs, notif)
	}

	if err := d.notifRepo.CreateNotificationBatch(ctx, notifs); err != nil {
		return nil, fmt.Errorf("failed to notify users: %w", err)
	}

	metrics.NotificationsCreated.WithLabelValues(notifs[0].NotificationType).Add(float64(len(notifs)))
	d.logger.Info("Notifications dispatched",
		zap.Int("user_count", len(userIDs)),
		zap.String("type", notifs[0].NotificationType),
	)

	return notifs, nil
}

// NotifyUsersFromAlert 由告警派生通知内容并扇出
func (d *Dispatcher) NotifyUsersFromAlert(ctx context.Context, alert *models.Alert, userIDs []int64) ([]*models.Notification, error) {
	if alert == nil {
		return nil, fmt.Errorf("alert is required")
	}

	title := fmt.Sprintf("Alert (%s) in zone %d", alert.Severity, alert.ZoneID)
	channel := models.ChannelInternal
	zoneID := alert.ZoneID
	alertID := alert.ID

	return d.NotifyUsers(ctx, userIDs, title, alert.Message, models.NotificationTypeAlert, &Refs{
		Channel:  &channel,
		AlertID:  &alertID,
		SensorID: alert.SensorID,
		ZoneID:   &zoneID,
	})
}

// NotifyFromAutomationRule 由规则执行派生通知内容并扇出
// message 为空时使用默认文案
func (d *Dispatcher) NotifyFromAutomationRule(
	ctx context.Context,
	rule *models.AutomationRule,
	userIDs []int64,
	message string,
) ([]*models.Notification, error) {
	if rule == nil {
		return nil, fmt.Errorf("rule is required")
	}

	title := fmt.Sprintf("Rule executed: %s", rule.Name)
	if message == "" {
		message = fmt.Sprintf("Rule '%s' was executed or requires attention.", rule.Name)
	}
	channel := models.ChannelInternal
	zoneID := rule.ZoneID

	return d.NotifyUsers(ctx, userIDs, title, message, models.NotificationTypeAutomation, &Refs{
		Channel: &channel,
		ZoneID:  &zoneID,
	})
}

// NotifyReportGenerated 由报表状态派生通知内容并扇出
func (d *Dispatcher) NotifyReportGenerated(ctx context.Context, report *models.Report, userIDs []int64) ([]*models.Notification, error) {
	if report == nil {
		return nil, fmt.Errorf("report is required")
	}

	title := fmt.Sprintf("Report %s: %s", report.Status, report.Title)

	var message string
	switch report.Status {
	case models.ReportStatusGenerated:
		message = fmt.Sprintf("Report '%s' was generated successfully.", report.Title)
	case models.ReportStatusFailed:
		message = fmt.Sprintf("Report '%s' failed. Check the system.", report.Title)
	default:
		message = fmt.Sprintf("Report '%s' status: %s.", report.Title, report.Status)
	}

	channel := models.ChannelInternal
	return d.NotifyUsers(ctx, userIDs, title, message, models.NotificationTypeReport, &Refs{
		Channel: &channel,
		ZoneID:  report.ZoneID,
	})
}

// MarkAllReadForUser 将用户的全部未读通知置为已读，返回修改条数
// 幂等：连续调用第二次返回 0
func (d *Dispatcher) MarkAllReadForUser(ctx context.Context, userID int64) (int64, error) {
	count, err := d.notifRepo.MarkAllReadForUser(ctx, userID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read for user %d: %w", userID, err)
	}

	if count > 0 {
		d.logger.Debug("Notifications marked read",
			zap.Int64("user_id", userID),
			zap.Int64("count", count),
		)
	}

	return count, nil
}

func buildNotification(userID int64, title, message, notificationType string, refs *Refs) *models.Notification {
	if notificationType == "" {
		notificationType = models.NotificationTypeSystem
	}

	notif := &models.Notification{
		Title:            title,
		Message:          message,
		NotificationType: notificationType,
		IsRead:           false,
		UserID:           userID,
	}
	if refs != nil {
		notif.Channel = refs.Channel
		notif.AlertID = refs.AlertID
		notif.SensorID = refs.SensorID
		notif.ActuatorID = refs.ActuatorID
		notif.ZoneID = refs.ZoneID
	}

	return notif
}
