package evaluator

import (
	"testing"

	"agrodrone-automation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func msmt(sensorID int64, value float64) *models.Measurement {
	return &models.Measurement{SensorID: sensorID, Value: value}
}

func TestEvaluateCondition_Always(t *testing.T) {
	cond := &models.Condition{
		Type:   models.ConditionTypeAlways,
		Always: &models.AlwaysCondition{Value: true},
	}

	// always 条件不依赖测量值
	assert.True(t, EvaluateCondition(cond, nil))
	assert.True(t, EvaluateCondition(cond, msmt(1, 42)))

	cond.Always.Value = false
	assert.False(t, EvaluateCondition(cond, msmt(1, 42)))
}

func TestEvaluateCondition_NilInputs(t *testing.T) {
	assert.False(t, EvaluateCondition(nil, msmt(1, 42)))

	// measurement 条件没有测量值时为 false
	cond := &models.Condition{
		Type:        models.ConditionTypeMeasurement,
		Measurement: &models.MeasurementClause{Operator: models.OperatorGreater, Value: f64(10)},
	}
	assert.False(t, EvaluateCondition(cond, nil))
}

func TestEvaluateCondition_UnknownType(t *testing.T) {
	cond := &models.Condition{Type: "schedule"}
	assert.False(t, EvaluateCondition(cond, msmt(1, 42)))
}

func TestEvaluateCondition_Operators(t *testing.T) {
	tests := []struct {
		name     string
		operator string
		value    float64
		reading  float64
		want     bool
	}{
		{"greater true", models.OperatorGreater, 30, 30.5, true},
		{"greater boundary", models.OperatorGreater, 30, 30, false},
		{"less true", models.OperatorLess, 5, 4.9, true},
		{"less boundary", models.OperatorLess, 5, 5, false},
		{"greater equal boundary", models.OperatorGreaterEqual, 30, 30, true},
		{"less equal boundary", models.OperatorLessEqual, 5, 5, true},
		{"equal true", "==", 7.5, 7.5, true},
		{"equal false", "==", 7.5, 7.6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond := &models.Condition{
				Type: models.ConditionTypeMeasurement,
				Measurement: &models.MeasurementClause{
					Operator: tt.operator,
					Value:    f64(tt.value),
				},
			}
			assert.Equal(t, tt.want, EvaluateCondition(cond, msmt(1, tt.reading)))
		})
	}
}

func TestEvaluateCondition_BetweenInclusive(t *testing.T) {
	cond := &models.Condition{
		Type: models.ConditionTypeMeasurement,
		Measurement: &models.MeasurementClause{
			Operator: models.OperatorBetween,
			Min:      f64(10),
			Max:      f64(20),
		},
	}

	// 边界包含在内
	assert.True(t, EvaluateCondition(cond, msmt(1, 10)))
	assert.True(t, EvaluateCondition(cond, msmt(1, 15)))
	assert.True(t, EvaluateCondition(cond, msmt(1, 20)))
	assert.False(t, EvaluateCondition(cond, msmt(1, 9.99)))
	assert.False(t, EvaluateCondition(cond, msmt(1, 20.01)))
}

func TestEvaluateCondition_BetweenMissingBound(t *testing.T) {
	cond := &models.Condition{
		Type: models.ConditionTypeMeasurement,
		Measurement: &models.MeasurementClause{
			Operator: models.OperatorBetween,
			Min:      f64(10),
		},
	}
	assert.False(t, EvaluateCondition(cond, msmt(1, 15)))
}

func TestEvaluateCondition_SensorFilter(t *testing.T) {
	cond := &models.Condition{
		Type: models.ConditionTypeMeasurement,
		Measurement: &models.MeasurementClause{
			SensorID: i64(3),
			Operator: models.OperatorGreater,
			Value:    f64(30),
		},
	}

	// sensor_id 不匹配时条件不成立
	assert.False(t, EvaluateCondition(cond, msmt(4, 35)))
	assert.True(t, EvaluateCondition(cond, msmt(3, 35)))
}

func TestEvaluateCondition_MissingComparisonValue(t *testing.T) {
	cond, err := models.DecodeCondition(`{"type": "measurement", "operator": ">"}`)
	require.NoError(t, err)

	assert.False(t, EvaluateCondition(cond, msmt(1, 100)))
}
