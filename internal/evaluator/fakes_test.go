package evaluator

import (
	"context"
	"fmt"

	"agrodrone-automation/internal/models"
	"agrodrone-automation/internal/repository"
)

// 仅用于单元测试的内存仓库实现

type fakeSensorRepo struct {
	sensors map[int64]*models.Sensor
	err     error
}

func newFakeSensorRepo(sensors ...*models.Sensor) *fakeSensorRepo {
	m := make(map[int64]*models.Sensor)
	for _, s := range sensors {
		m[s.ID] = s
	}
	return &fakeSensorRepo{sensors: m}
}

func (f *fakeSensorRepo) GetSensor(ctx context.Context, sensorID int64) (*models.Sensor, error) {
	if f.err != nil {
		return nil, f.err
	}
	sensor, ok := f.sensors[sensorID]
	if !ok {
		return nil, fmt.Errorf("sensor not found: id=%d: %w", sensorID, repository.ErrNotFound)
	}
	return sensor, nil
}

type fakeThresholdRepo struct {
	configs map[int64][]models.ThresholdConfig // sensor_id -> configs
	err     error
}

func (f *fakeThresholdRepo) ListActiveBySensor(ctx context.Context, sensorID int64) ([]models.ThresholdConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.configs[sensorID], nil
}

type fakeAlertRepo struct {
	alerts []*models.Alert
	err    error
}

func (f *fakeAlertRepo) CreateAlert(ctx context.Context, alert *models.Alert) error {
	if f.err != nil {
		return f.err
	}
	alert.ID = int64(len(f.alerts) + 1)
	f.alerts = append(f.alerts, alert)
	return nil
}

type fakeRuleRepo struct {
	rules   map[int64][]models.AutomationRule   // zone_id -> rules
	links   map[int64][]models.RuleActuatorMap  // rule_id -> links
	zoneIDs []int64
	err     error
}

func (f *fakeRuleRepo) ListActiveByZone(ctx context.Context, zoneID int64) ([]models.AutomationRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rules[zoneID], nil
}

func (f *fakeRuleRepo) ListActuatorMaps(ctx context.Context, ruleID int64) ([]models.RuleActuatorMap, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.links[ruleID], nil
}

func (f *fakeRuleRepo) ListZoneIDsWithActiveRules(ctx context.Context) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.zoneIDs, nil
}

func (f *fakeRuleRepo) DeleteRule(ctx context.Context, ruleID int64) error {
	return fmt.Errorf("not implemented")
}

type fakeActuatorRepo struct {
	actuators map[int64]*models.Actuator
	setErr    map[int64]error // actuator_id -> forced SetActuatorState error
	setCalls  []setStateCall
}

type setStateCall struct {
	actuatorID int64
	isOn       bool
}

func newFakeActuatorRepo(actuators ...*models.Actuator) *fakeActuatorRepo {
	m := make(map[int64]*models.Actuator)
	for _, a := range actuators {
		m[a.ID] = a
	}
	return &fakeActuatorRepo{actuators: m, setErr: make(map[int64]error)}
}

func (f *fakeActuatorRepo) GetActuator(ctx context.Context, actuatorID int64) (*models.Actuator, error) {
	actuator, ok := f.actuators[actuatorID]
	if !ok {
		return nil, fmt.Errorf("actuator not found: id=%d: %w", actuatorID, repository.ErrNotFound)
	}
	return actuator, nil
}

func (f *fakeActuatorRepo) SetActuatorState(ctx context.Context, actuatorID int64, isOn bool) error {
	if err := f.setErr[actuatorID]; err != nil {
		return err
	}
	f.setCalls = append(f.setCalls, setStateCall{actuatorID: actuatorID, isOn: isOn})
	if actuator, ok := f.actuators[actuatorID]; ok {
		actuator.IsOn = isOn
	}
	return nil
}

type fakeLogRepo struct {
	logs []*models.AutomationLog
	err  error
}

func (f *fakeLogRepo) CreateLog(ctx context.Context, log *models.AutomationLog) error {
	if f.err != nil {
		return f.err
	}
	log.ID = int64(len(f.logs) + 1)
	f.logs = append(f.logs, log)
	return nil
}

// 编译期接口检查
var (
	_ repository.SensorRepository          = (*fakeSensorRepo)(nil)
	_ repository.ThresholdConfigRepository = (*fakeThresholdRepo)(nil)
	_ repository.AlertRepository           = (*fakeAlertRepo)(nil)
	_ repository.AutomationRuleRepository  = (*fakeRuleRepo)(nil)
	_ repository.ActuatorRepository        = (*fakeActuatorRepo)(nil)
	_ repository.AutomationLogRepository   = (*fakeLogRepo)(nil)
)
