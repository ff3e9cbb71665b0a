package repository

import (
	"context"
	"database/sql"
	"fmt"

	"agrodrone-automation/internal/models"

	"go.uber.org/zap"
)

// PostgresAutomationRuleRepository 自动化规则仓库实现
type PostgresAutomationRuleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresAutomationRuleRepository 创建自动化规则仓库
func NewPostgresAutomationRuleRepository(db *sql.DB, logger *zap.Logger) *PostgresAutomationRuleRepository {
	return &PostgresAutomationRuleRepository{
		db:     db,
		logger: logger,
	}
}

// 确保实现了接口
var _ AutomationRuleRepository = (*PostgresAutomationRuleRepository)(nil)

// ListActiveByZone 获取区内启用规则
// priority 升序，平级保持存储顺序（id 升序）
func (r *PostgresAutomationRuleRepository) ListActiveByZone(ctx context.Context, zoneID int64) ([]models.AutomationRule, error) {
	if zoneID <= 0 {
		return nil, fmt.Errorf("zone_id is required")
	}

	query := `
		SELECT
			id,
			name,
			is_active,
			priority,
			condition,
			action_description,
			zone_id,
			created_at,
			updated_at
		FROM automation_rules
		WHERE zone_id = $1
		  AND is_active = TRUE
		ORDER BY priority ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to query automation rules: %w", err)
	}
	defer rows.Close()

	var rules []models.AutomationRule
	for rows.Next() {
		var rule models.AutomationRule
		var actionDescription sql.NullString

		if err := rows.Scan(
			&rule.ID,
			&rule.Name,
			&rule.IsActive,
			&rule.Priority,
			&rule.Condition,
			&actionDescription,
			&rule.ZoneID,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan automation rule: %w", err)
		}

		if actionDescription.Valid {
			rule.ActionDescription = &actionDescription.String
		}

		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate automation rules: %w", err)
	}

	return rules, nil
}

// ListActuatorMaps 获取规则的执行器关联（按 id 升序，即存储顺序）
func (r *PostgresAutomationRuleRepository) ListActuatorMaps(ctx context.Context, ruleID int64) ([]models.RuleActuatorMap, error) {
	if ruleID <= 0 {
		return nil, fmt.Errorf("rule_id is required")
	}

	query := `
		SELECT
			id,
			rule_id,
			actuator_id,
			desired_state,
			duration_seconds,
			action_note,
			created_at,
			updated_at
		FROM rule_actuator_map
		WHERE rule_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, ruleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rule actuator maps: %w", err)
	}
	defer rows.Close()

	var maps []models.RuleActuatorMap
	for rows.Next() {
		var link models.RuleActuatorMap
		var durationSeconds sql.NullInt64
		var actionNote sql.NullString

		if err := rows.Scan(
			&link.ID,
			&link.RuleID,
			&link.ActuatorID,
			&link.DesiredState,
			&durationSeconds,
			&actionNote,
			&link.CreatedAt,
			&link.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rule actuator map: %w", err)
		}

		if durationSeconds.Valid {
			seconds := int(durationSeconds.Int64)
			link.DurationSeconds = &seconds
		}
		if actionNote.Valid {
			link.ActionNote = &actionNote.String
		}

		maps = append(maps, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rule actuator maps: %w", err)
	}

	return maps, nil
}

// ListZoneIDsWithActiveRules 获取存在启用规则的所有区 ID
func (r *PostgresAutomationRuleRepository) ListZoneIDsWithActiveRules(ctx context.Context) ([]int64, error) {
	query := `
		SELECT DISTINCT zone_id
		FROM automation_rules
		WHERE is_active = TRUE
		ORDER BY zone_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query zones with active rules: %w", err)
	}
	defer rows.Close()

	var zoneIDs []int64
	for rows.Next() {
		var zoneID int64
		if err := rows.Scan(&zoneID); err != nil {
			return nil, fmt.Errorf("failed to scan zone_id: %w", err)
		}
		zoneIDs = append(zoneIDs, zoneID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate zone ids: %w", err)
	}

	return zoneIDs, nil
}

// DeleteRule 删除规则及其执行器关联和审计日志
// 没有 ORM 级联，这里在单事务中显式先删子表再删主表
func (r *PostgresAutomationRuleRepository) DeleteRule(ctx context.Context, ruleID int64) error {
	if ruleID <= 0 {
		return fmt.Errorf("rule_id is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM rule_actuator_map WHERE rule_id = $1`, ruleID,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete rule actuator maps: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM automation_logs WHERE rule_id = $1`, ruleID,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete automation logs: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM automation_rules WHERE id = $1`, ruleID,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete automation rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("automation rule not found: id=%d: %w", ruleID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rule deletion: %w", err)
	}

	r.logger.Info("Automation rule deleted",
		zap.Int64("rule_id", ruleID),
	)

	return nil
}
