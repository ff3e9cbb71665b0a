package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 采集指标
	MeasurementsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrodrone_measurements_ingested_total",
			Help: "Total number of measurements ingested",
		},
		[]string{"status"}, // status: accepted, rejected
	)

	// 告警指标
	AlertsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrodrone_alerts_created_total",
			Help: "Total number of alerts created",
		},
		[]string{"severity"},
	)

	// 规则引擎指标
	RuleOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrodrone_rule_outcomes_total",
			Help: "Total number of rule evaluation outcomes",
		},
		[]string{"status"}, // status: triggered, skipped, failed
	)

	// 通知指标
	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrodrone_notifications_created_total",
			Help: "Total number of notifications created",
		},
		[]string{"type"},
	)

	// 定时扫描指标
	SweepRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agrodrone_sweep_runs_total",
			Help: "Total number of scheduled rule sweeps",
		},
	)
)
