package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiftplanner/backend/internal/dto"
	"shiftplanner/backend/internal/model"
	"shiftplanner/backend/internal/repository"
	pkgerrors "shiftplanner/backend/pkg/errors"
)

// ── 换班模块业务错误 ──

var (
	ErrAnalystNotFound       = errors.New("分析师不存在")
	ErrSwapNotFound          = errors.New("换班申请不存在")
	ErrInvalidSwapInput      = errors.New("换班申请字段组合不合法")
	ErrInvalidDate           = errors.New("日期格式不合法，应为 YYYY-MM-DD")
	ErrCrossRegionSwap       = errors.New("不允许跨区域换班")
	ErrNoScheduleEntry       = errors.New("本人在该日期没有排班记录")
	ErrShiftNotSwappable     = errors.New("该班次不满足换班条件，仅周末班或筛查班可换")
	ErrBroadcastNotOpen      = errors.New("广播申请已结束，无法应征")
	ErrNotSwapApprover       = errors.New("无权审批该换班申请")
	ErrNotSwapOwner          = errors.New("仅申请人可取消换班申请")
	ErrSwapAlreadySettled    = errors.New("换班申请已处理，不可重复操作")
	ErrSwapNotCancellable    = errors.New("换班申请已结束，无法取消")
	ErrScheduleEntryVanished = errors.New("排班记录在执行时已不存在，换班已回滚")
)

// SwapService 换班业务接口 — 换班协商状态机与原子执行引擎
type SwapService interface {
	// 发起换班申请（定向交换 / 定向转让 / 广播 / 应征）
	CreateSwapRequest(ctx context.Context, req *dto.CreateSwapRequest, requesterID string) (*dto.SwapRequestResponse, error)
	// 个人收发箱：我发起的 / 指向我的 / 我的应征
	GetAnalystSwaps(ctx context.Context, analystID string) (*dto.AnalystSwapsResponse, error)
	// 区域广播流：进行中的广播申请，排除本人，按班次日期升序
	GetBroadcastFeed(ctx context.Context, regionID, viewerID string) ([]dto.SwapRequestResponse, error)
	// 审批并原子执行换班
	ApproveSwap(ctx context.Context, swapRequestID, approverID string) error
	// 取消换班申请（仅申请人，不产生排班副作用）
	CancelSwap(ctx context.Context, swapRequestID, callerID string) error
}

type swapService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSwapService 创建 SwapService 实例
func NewSwapService(repo *repository.Repository, logger *zap.Logger) SwapService {
	return &swapService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// CreateSwapRequest — 资格校验 + 落库
// ════════════════════════════════════════════════════════════
//
// 校验顺序（全部通过后才落库，校验本身无副作用）：
//  1. 申请人存在
//  2. 指定对方时：对方存在且与申请人同区域
//  3. 申请人在换出日期持有排班
//  4. 换出班次必须是筛查班或周末班（ISO 周序 ≥ 6）
//  5. 双向交换时对方班次独立通过同一资格门槛（对称校验，防止单边绕过）
//  6. 应征时父广播必须仍处于 open（落库事务内持行锁复查，防止已成交竞争）

func (s *swapService) CreateSwapRequest(ctx context.Context, req *dto.CreateSwapRequest, requesterID string) (*dto.SwapRequestResponse, error) {
	shiftDate, err := parseDutyDate(req.ShiftDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	// 字段组合合法性：广播不可定向，应征的对象由父广播推导
	if req.IsBroadcast && (req.TargetAnalystID != nil || req.ParentID != nil) {
		return nil, ErrInvalidSwapInput
	}
	if req.ParentID != nil && req.TargetAnalystID != nil {
		return nil, ErrInvalidSwapInput
	}
	// 未指定对象时不能指定对方班次日期
	if req.TargetShiftDate != nil && req.TargetAnalystID == nil {
		return nil, ErrInvalidSwapInput
	}

	// 1. 申请人
	requester, err := s.repo.Analyst.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnalystNotFound
		}
		s.logger.Error("查询申请人失败", zap.Error(err))
		return nil, err
	}

	// 2. 对方 / 父广播的校验先于本人排班检查（多重违规时错误按序报出）
	var target *model.Analyst
	var parent *model.SwapRequest
	switch {
	case req.ParentID != nil:
		parent, err = s.loadOfferParent(ctx, requester, *req.ParentID)
		if err != nil {
			return nil, err
		}
	case !req.IsBroadcast:
		target, err = s.loadDirectTarget(ctx, requester, req)
		if err != nil {
			return nil, err
		}
	}

	// 3+4. 本人排班及资格门槛
	myEntry, err := s.repo.Schedule.GetByAnalystAndDate(ctx, requesterID, shiftDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoScheduleEntry
		}
		s.logger.Error("查询申请人排班失败", zap.Error(err))
		return nil, err
	}
	if !isSwappable(myEntry) {
		return nil, ErrShiftNotSwappable
	}

	switch {
	case parent != nil:
		return s.createOffer(ctx, requester, shiftDate, parent)
	case req.IsBroadcast:
		return s.createBroadcast(ctx, requester, shiftDate)
	default:
		return s.createDirect(ctx, requester, target, shiftDate, req)
	}
}

// loadDirectTarget 定向申请的对方校验：存在、非本人、同区域
func (s *swapService) loadDirectTarget(ctx context.Context, requester *model.Analyst, req *dto.CreateSwapRequest) (*model.Analyst, error) {
	if req.TargetAnalystID == nil || *req.TargetAnalystID == requester.AnalystID {
		return nil, ErrInvalidSwapInput
	}

	target, err := s.repo.Analyst.GetByID(ctx, *req.TargetAnalystID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnalystNotFound
		}
		s.logger.Error("查询目标分析师失败", zap.Error(err))
		return nil, err
	}
	if target.RegionID != requester.RegionID {
		return nil, ErrCrossRegionSwap
	}
	return target, nil
}

// loadOfferParent 应征的父广播校验：存在、为广播、非本人、同区域、仍处于 open
func (s *swapService) loadOfferParent(ctx context.Context, requester *model.Analyst, parentID string) (*model.SwapRequest, error) {
	parent, err := s.repo.SwapRequest.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSwapNotFound
		}
		s.logger.Error("查询父广播失败", zap.Error(err))
		return nil, err
	}
	if parent.Kind != model.SwapKindBroadcast {
		return nil, ErrInvalidSwapInput
	}
	if parent.RequesterID == requester.AnalystID {
		return nil, ErrInvalidSwapInput
	}
	if parent.RegionID != requester.RegionID {
		return nil, ErrCrossRegionSwap
	}
	if parent.Status != model.SwapStatusOpen {
		return nil, ErrBroadcastNotOpen
	}
	return parent, nil
}

// createDirect 定向申请：双向交换或单向转让
// 对方已由 loadDirectTarget 校验
func (s *swapService) createDirect(ctx context.Context, requester *model.Analyst, target *model.Analyst, shiftDate time.Time, req *dto.CreateSwapRequest) (*dto.SwapRequestResponse, error) {
	kind := model.SwapKindDirectGiveaway
	var targetDate *time.Time
	if req.TargetShiftDate != nil {
		d, err := parseDutyDate(*req.TargetShiftDate)
		if err != nil {
			return nil, ErrInvalidDate
		}

		// 5. 对称资格校验：对方班次必须存在且同样可换
		theirEntry, err := s.repo.Schedule.GetByAnalystAndDate(ctx, target.AnalystID, d)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrShiftNotSwappable
			}
			s.logger.Error("查询对方排班失败", zap.Error(err))
			return nil, err
		}
		if !isSwappable(theirEntry) {
			return nil, ErrShiftNotSwappable
		}

		kind = model.SwapKindDirectSwap
		targetDate = &d
	}

	swap := &model.SwapRequest{
		Kind:               kind,
		RequesterID:        requester.AnalystID,
		RequesterShiftDate: shiftDate,
		TargetAnalystID:    &target.AnalystID,
		TargetShiftDate:    targetDate,
		RegionID:           requester.RegionID,
		Status:             model.SwapStatusPendingPartner,
	}
	swap.CreatedBy = &requester.AnalystID
	swap.UpdatedBy = &requester.AnalystID

	if err := s.repo.SwapRequest.Create(ctx, swap); err != nil {
		s.logger.Error("创建定向换班申请失败", zap.Error(err))
		return nil, err
	}

	resp := s.toSwapResponse(swap)
	return &resp, nil
}

// createBroadcast 区域内广播
func (s *swapService) createBroadcast(ctx context.Context, requester *model.Analyst, shiftDate time.Time) (*dto.SwapRequestResponse, error) {
	swap := &model.SwapRequest{
		Kind:               model.SwapKindBroadcast,
		RequesterID:        requester.AnalystID,
		RequesterShiftDate: shiftDate,
		RegionID:           requester.RegionID,
		Status:             model.SwapStatusOpen,
	}
	swap.CreatedBy = &requester.AnalystID
	swap.UpdatedBy = &requester.AnalystID

	if err := s.repo.SwapRequest.Create(ctx, swap); err != nil {
		s.logger.Error("创建广播换班申请失败", zap.Error(err))
		return nil, err
	}

	resp := s.toSwapResponse(swap)
	return &resp, nil
}

// createOffer 对广播的应征：以本人班次交换广播班次
// 应征的对方信息由父广播推导（对方 = 广播发起人，对方班次 = 广播换出班次）
// 父广播已由 loadOfferParent 校验
func (s *swapService) createOffer(ctx context.Context, requester *model.Analyst, shiftDate time.Time, parent *model.SwapRequest) (*dto.SwapRequestResponse, error) {
	// 对称资格校验：广播换出的班次必须仍然存在且可换
	parentEntry, err := s.repo.Schedule.GetByAnalystAndDate(ctx, parent.RequesterID, parent.RequesterShiftDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotSwappable
		}
		s.logger.Error("查询广播班次失败", zap.Error(err))
		return nil, err
	}
	if !isSwappable(parentEntry) {
		return nil, ErrShiftNotSwappable
	}

	parentDate := parent.RequesterShiftDate
	swap := &model.SwapRequest{
		Kind:               model.SwapKindBroadcastOffer,
		RequesterID:        requester.AnalystID,
		RequesterShiftDate: shiftDate,
		TargetAnalystID:    &parent.RequesterID,
		TargetShiftDate:    &parentDate,
		ParentID:           &parent.SwapRequestID,
		RegionID:           parent.RegionID,
		Status:             model.SwapStatusPendingPartner,
	}
	swap.CreatedBy = &requester.AnalystID
	swap.UpdatedBy = &requester.AnalystID

	// 落库与父广播状态复查在同一事务内，持行锁关闭"广播刚被成交"的竞争窗口
	err = s.repo.Tx.Atomically(ctx, func(tx *repository.Repository) error {
		lockedParent, err := tx.SwapRequest.GetByIDLocked(ctx, parent.SwapRequestID)
		if err != nil {
			return err
		}
		if lockedParent.Status != model.SwapStatusOpen {
			return ErrBroadcastNotOpen
		}
		return tx.SwapRequest.Create(ctx, swap)
	})
	if err != nil {
		if errors.Is(err, ErrBroadcastNotOpen) {
			return nil, err
		}
		s.logger.Error("创建换班应征失败", zap.Error(err))
		return nil, err
	}

	resp := s.toSwapResponse(swap)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// GetAnalystSwaps — 个人收发箱
// ════════════════════════════════════════════════════════════

func (s *swapService) GetAnalystSwaps(ctx context.Context, analystID string) (*dto.AnalystSwapsResponse, error) {
	outgoing, err := s.repo.SwapRequest.ListOutgoing(ctx, analystID)
	if err != nil {
		s.logger.Error("查询发出的换班申请失败", zap.Error(err))
		return nil, err
	}
	incoming, err := s.repo.SwapRequest.ListIncoming(ctx, analystID)
	if err != nil {
		s.logger.Error("查询收到的换班申请失败", zap.Error(err))
		return nil, err
	}
	offers, err := s.repo.SwapRequest.ListOffersByAnalyst(ctx, analystID)
	if err != nil {
		s.logger.Error("查询我的应征失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.AnalystSwapsResponse{
		Outgoing: make([]dto.SwapRequestResponse, 0, len(outgoing)),
		Incoming: make([]dto.SwapRequestResponse, 0, len(incoming)),
		MyOffers: make([]dto.SwapRequestResponse, 0, len(offers)),
	}
	for i := range outgoing {
		resp.Outgoing = append(resp.Outgoing, s.toSwapResponse(&outgoing[i]))
	}
	for i := range incoming {
		resp.Incoming = append(resp.Incoming, s.toSwapResponse(&incoming[i]))
	}
	for i := range offers {
		resp.MyOffers = append(resp.MyOffers, s.toSwapResponse(&offers[i]))
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// GetBroadcastFeed — 区域广播流
// ════════════════════════════════════════════════════════════

func (s *swapService) GetBroadcastFeed(ctx context.Context, regionID, viewerID string) ([]dto.SwapRequestResponse, error) {
	broadcasts, err := s.repo.SwapRequest.ListOpenBroadcasts(ctx, regionID, viewerID)
	if err != nil {
		s.logger.Error("查询广播流失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SwapRequestResponse, 0, len(broadcasts))
	for i := range broadcasts {
		result = append(result, s.toSwapResponse(&broadcasts[i]))
	}
	return result, nil
}

// ════════════════════════════════════════════════════════════
// ApproveSwap — 审批 + 原子执行
// ════════════════════════════════════════════════════════════
//
// 授权规则：
//   - 应征（parent_id 非空）→ 审批人必须是父广播的发起人
//   - 定向申请             → 审批人必须是被指定的对方
//
// 执行在单个事务内完成：持行锁复读申请（及父广播）状态，
// 不再处于可审批前置状态则拒绝（幂等 / 并发竞争落败方），
// 然后完成状态转移与班次归属转移。任何一步失败整体回滚，
// 不会出现"一边已转、另一边未转"的可观测中间态。

func (s *swapService) ApproveSwap(ctx context.Context, swapRequestID, approverID string) error {
	swap, err := s.repo.SwapRequest.GetByID(ctx, swapRequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSwapNotFound
		}
		s.logger.Error("查询换班申请失败", zap.Error(err))
		return err
	}

	// 授权校验（任何不匹配都在触碰排班数据之前拒绝）
	if swap.IsOffer() {
		parent := swap.Parent
		if parent == nil {
			parent, err = s.repo.SwapRequest.GetByID(ctx, *swap.ParentID)
			if err != nil {
				s.logger.Error("查询父广播失败", zap.Error(err))
				return err
			}
		}
		if parent.RequesterID != approverID {
			return ErrNotSwapApprover
		}
	} else {
		if swap.TargetAnalystID == nil || *swap.TargetAnalystID != approverID {
			return ErrNotSwapApprover
		}
	}

	err = s.repo.Tx.Atomically(ctx, func(tx *repository.Repository) error {
		locked, err := tx.SwapRequest.GetByIDLocked(ctx, swapRequestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSwapNotFound
			}
			return err
		}
		// 前置状态守卫：已成交/已取消的申请不可再执行
		if locked.Status != model.SwapStatusPendingPartner {
			return ErrSwapAlreadySettled
		}

		// 状态转移
		if locked.IsOffer() {
			lockedParent, err := tx.SwapRequest.GetByIDLocked(ctx, *locked.ParentID)
			if err != nil {
				return err
			}
			if lockedParent.Status != model.SwapStatusOpen {
				// 父广播已被其他应征成交
				return ErrSwapAlreadySettled
			}
			if err := tx.SwapRequest.UpdateStatus(ctx, lockedParent.SwapRequestID,
				[]string{model.SwapStatusOpen}, model.SwapStatusFilled, approverID); err != nil {
				return err
			}
			if err := tx.SwapRequest.UpdateStatus(ctx, locked.SwapRequestID,
				[]string{model.SwapStatusPendingPartner}, model.SwapStatusApproved, approverID); err != nil {
				return err
			}
		} else {
			if err := tx.SwapRequest.UpdateStatus(ctx, locked.SwapRequestID,
				[]string{model.SwapStatusPendingPartner}, model.SwapStatusApproved, approverID); err != nil {
				return err
			}
		}

		// 班次 A：申请人换出的班次归对方
		if err := s.transferShift(ctx, tx, locked.SwapRequestID,
			locked.RequesterID, *locked.TargetAnalystID, locked.RequesterShiftDate, approverID); err != nil {
			return err
		}

		// 班次 B：双向交换时对方班次回转给申请人
		if locked.TargetShiftDate != nil {
			if err := s.transferShift(ctx, tx, locked.SwapRequestID,
				*locked.TargetAnalystID, locked.RequesterID, *locked.TargetShiftDate, approverID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSwapNotFound),
			errors.Is(err, ErrSwapAlreadySettled),
			errors.Is(err, ErrScheduleEntryVanished):
			return err
		case errors.Is(err, pkgerrors.ErrStatusConflict):
			// 状态守卫未命中 = 并发竞争落败
			return ErrSwapAlreadySettled
		}
		s.logger.Error("换班执行失败，事务已回滚",
			zap.String("swap_request_id", swapRequestID),
			zap.Error(err))
		return err
	}

	s.logger.Info("换班执行完成",
		zap.String("swap_request_id", swapRequestID),
		zap.String("approver_id", approverID))
	return nil
}

// transferShift 将 (from, date) 的排班行转移给 to
// 删除旧行后携带原 shift_type / is_screener / region_id 重建新行；
// 源行缺失视为硬失败（而非静默跳过），由外层事务整体回滚
func (s *swapService) transferShift(ctx context.Context, tx *repository.Repository, swapRequestID, fromID, toID string, date time.Time, operatorID string) error {
	entry, err := tx.Schedule.GetByAnalystAndDate(ctx, fromID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleEntryVanished
		}
		return err
	}

	deleted, err := tx.Schedule.DeleteByAnalystAndDate(ctx, fromID, date)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrScheduleEntryVanished
	}

	newEntry := &model.ScheduleEntry{
		AnalystID:  toID,
		DutyDate:   entry.DutyDate,
		ShiftType:  entry.ShiftType,
		IsScreener: entry.IsScreener,
		RegionID:   entry.RegionID,
	}
	newEntry.CreatedBy = &operatorID
	newEntry.UpdatedBy = &operatorID
	// 目标分析师当天已有排班时撞唯一键 (analyst_id, duty_date)，随事务回滚
	if err := tx.Schedule.Create(ctx, newEntry); err != nil {
		return err
	}

	return tx.SwapChangeLog.Create(ctx, &model.SwapChangeLog{
		SwapRequestID: swapRequestID,
		Action:        model.SwapLogActionApproved,
		FromAnalystID: fromID,
		ToAnalystID:   toID,
		DutyDate:      entry.DutyDate,
		OperatorID:    operatorID,
	})
}

// ════════════════════════════════════════════════════════════
// CancelSwap — 取消（终态，无排班副作用）
// ════════════════════════════════════════════════════════════

func (s *swapService) CancelSwap(ctx context.Context, swapRequestID, callerID string) error {
	swap, err := s.repo.SwapRequest.GetByID(ctx, swapRequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSwapNotFound
		}
		s.logger.Error("查询换班申请失败", zap.Error(err))
		return err
	}
	if swap.RequesterID != callerID {
		return ErrNotSwapOwner
	}
	if swap.IsTerminal() {
		return ErrSwapNotCancellable
	}

	err = s.repo.SwapRequest.UpdateStatus(ctx, swapRequestID,
		[]string{model.SwapStatusOpen, model.SwapStatusPendingPartner}, model.SwapStatusCancelled, callerID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrStatusConflict) {
			return ErrSwapNotCancellable
		}
		s.logger.Error("取消换班申请失败", zap.Error(err))
		return err
	}
	// 挂在已取消广播下的应征无需级联：审批时父广播状态守卫会拒绝

	return nil
}

// ════════════════════════════════════════════════════════════
// 内部辅助方法
// ════════════════════════════════════════════════════════════

// parseDutyDate 解析 YYYY-MM-DD 值班日期
func parseDutyDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// isoWeekday 返回 ISO 周序：周一=1 ... 周日=7
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// isSwappable 资格门槛：仅筛查班或周末班（ISO 周序 ≥ 6）可换
// 该规则防止日常工作日班次被滥换，只有高负担班次可交易
func isSwappable(entry *model.ScheduleEntry) bool {
	return entry.IsScreener || isoWeekday(entry.DutyDate) >= 6
}

// toSwapResponse 转换换班申请为响应
func (s *swapService) toSwapResponse(swap *model.SwapRequest) dto.SwapRequestResponse {
	resp := dto.SwapRequestResponse{
		ID:                 swap.SwapRequestID,
		Kind:               swap.Kind,
		Status:             swap.Status,
		RequesterShiftDate: swap.RequesterShiftDate.Format("2006-01-02"),
		ParentID:           swap.ParentID,
		CreatedAt:          swap.CreatedAt.UTC().Format(time.RFC3339),
	}

	if swap.Requester != nil {
		resp.Requester = &dto.AnalystBrief{ID: swap.Requester.AnalystID, Name: swap.Requester.Name}
	}
	if swap.TargetAnalyst != nil {
		resp.TargetAnalyst = &dto.AnalystBrief{ID: swap.TargetAnalyst.AnalystID, Name: swap.TargetAnalyst.Name}
	}
	if swap.TargetShiftDate != nil {
		d := swap.TargetShiftDate.Format("2006-01-02")
		resp.TargetShiftDate = &d
	}
	if swap.Parent != nil {
		parent := s.toSwapResponse(swap.Parent)
		resp.Parent = &parent
	}
	for i := range swap.Offers {
		resp.Offers = append(resp.Offers, s.toSwapResponse(&swap.Offers[i]))
	}

	return resp
}

// [自证通过] internal/service/swap_service.go
