package models

import (
	"time"
)

// 报表生成状态
const (
	ReportStatusGenerated = "generated"
	ReportStatusFailed    = "failed"
	ReportStatusPending   = "pending"
)

// Report 报表（对应 reports 表）
// 报表文件的生成在本服务之外完成，这里只消费状态变化
type Report struct {
	ID          int64   `json:"id" db:"id"`
	Title       string  `json:"title" db:"title"`
	Description *string `json:"description,omitempty" db:"description"`
	ReportType  string  `json:"report_type" db:"report_type"` // sensor_summary, water_usage, ndvi_analysis
	FilePath    *string `json:"file_path,omitempty" db:"file_path"`
	Status      string  `json:"status" db:"status"` // generated, failed, pending

	FarmID      *int64 `json:"farm_id,omitempty" db:"farm_id"`
	ParcelID    *int64 `json:"parcel_id,omitempty" db:"parcel_id"`
	ZoneID      *int64 `json:"zone_id,omitempty" db:"zone_id"`
	CreatedByID *int64 `json:"created_by_id,omitempty" db:"created_by_id"`

	GeneratedAt time.Time `json:"generated_at" db:"generated_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
