package models

import (
	"time"
)

// Measurement 传感器测量值（对应 measurements 表）
// 由采集链路创建后不可变更
type Measurement struct {
	ID        int64     `json:"id" db:"id"`
	SensorID  int64     `json:"sensor_id" db:"sensor_id"`
	Value     float64   `json:"value" db:"value"`
	Unit      *string   `json:"unit,omitempty" db:"unit"`
	Status    *string   `json:"status,omitempty" db:"status"` // normal, warning, critical, offline
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Sensor 传感器（对应 sensors 表）
type Sensor struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	SensorType string    `json:"sensor_type" db:"sensor_type"` // temperature, humidity, ph, ndvi
	Model      *string   `json:"model,omitempty" db:"model"`
	Unit       *string   `json:"unit,omitempty" db:"unit"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	ZoneID     int64     `json:"zone_id" db:"zone_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Zone 种植区（对应 cultivation_zones 表）
// 区是规则、阈值、传感器和执行器的归属单位
type Zone struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	CropType    *string   `json:"crop_type,omitempty" db:"crop_type"`
	Description *string   `json:"description,omitempty" db:"description"`
	AreaM2      *float64  `json:"area_m2,omitempty" db:"area_m2"`
	ParcelID    int64     `json:"parcel_id" db:"parcel_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
