package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"shiftplanner/backend/internal/dto"
	"shiftplanner/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestSwapService() (SwapService, *testRepos) {
	repos := newTestRepos()
	svc := NewSwapService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

func strPtr(s string) *string { return &s }

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("解析日期失败: %v", err)
	}
	return d
}

// seedSwapFixture 种子数据：
//   - 区域 AMR / EMEA
//   - ana-a (AMR)：2025-03-01 周六 AM 普通班（周末可换）、2025-03-03 周一 AM 普通班（不可换）
//   - ana-b (AMR)：2025-03-04 周二 PM 筛查班（可换）
//   - ana-c (EMEA)：2025-03-01 周六 AM 普通班
//   - ana-d (AMR)：2025-03-08 周六 AM 普通班（周末可换）
func seedSwapFixture(t *testing.T, repos *testRepos) {
	t.Helper()
	ctx := context.Background()

	repos.region.regions["region-AMR"] = &model.Region{RegionID: "region-AMR", Code: "AMR", Name: "美洲"}
	repos.region.regions["region-EMEA"] = &model.Region{RegionID: "region-EMEA", Code: "EMEA", Name: "欧非中东"}

	repos.analyst.analysts["ana-a"] = &model.Analyst{AnalystID: "ana-a", Name: "Alice", Email: "alice@example.com", Role: model.RoleAnalyst, RegionID: "region-AMR"}
	repos.analyst.analysts["ana-b"] = &model.Analyst{AnalystID: "ana-b", Name: "Bob", Email: "bob@example.com", Role: model.RoleAnalyst, RegionID: "region-AMR"}
	repos.analyst.analysts["ana-c"] = &model.Analyst{AnalystID: "ana-c", Name: "Carol", Email: "carol@example.com", Role: model.RoleAnalyst, RegionID: "region-EMEA"}
	repos.analyst.analysts["ana-d"] = &model.Analyst{AnalystID: "ana-d", Name: "Dave", Email: "dave@example.com", Role: model.RoleAnalyst, RegionID: "region-AMR"}

	entries := []model.ScheduleEntry{
		{AnalystID: "ana-a", DutyDate: mustDate(t, "2025-03-01"), ShiftType: model.ShiftTypeAM, IsScreener: false, RegionID: "region-AMR"},
		{AnalystID: "ana-a", DutyDate: mustDate(t, "2025-03-03"), ShiftType: model.ShiftTypeAM, IsScreener: false, RegionID: "region-AMR"},
		{AnalystID: "ana-b", DutyDate: mustDate(t, "2025-03-04"), ShiftType: model.ShiftTypePM, IsScreener: true, RegionID: "region-AMR"},
		{AnalystID: "ana-c", DutyDate: mustDate(t, "2025-03-01"), ShiftType: model.ShiftTypeAM, IsScreener: false, RegionID: "region-EMEA"},
		{AnalystID: "ana-d", DutyDate: mustDate(t, "2025-03-08"), ShiftType: model.ShiftTypeAM, IsScreener: false, RegionID: "region-AMR"},
	}
	for i := range entries {
		if err := repos.schedule.Create(ctx, &entries[i]); err != nil {
			t.Fatalf("种子排班失败: %v", err)
		}
	}
}

// ════════════════════════════════════════════════════════════
// CreateSwapRequest 测试
// ════════════════════════════════════════════════════════════

func TestSwapService_Create_WeekdayNonScreenerRejected(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)

	// 2025-03-03 是周一且非筛查班
	_, err := svc.CreateSwapRequest(context.Background(), &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-03",
		TargetAnalystID: strPtr("ana-b"),
	}, "ana-a")
	if !errors.Is(err, ErrShiftNotSwappable) {
		t.Fatalf("期望 ErrShiftNotSwappable, 实际: %v", err)
	}
}

func TestSwapService_Create_NoScheduleEntry(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)

	_, err := svc.CreateSwapRequest(context.Background(), &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-15",
		TargetAnalystID: strPtr("ana-b"),
	}, "ana-a")
	if !errors.Is(err, ErrNoScheduleEntry) {
		t.Fatalf("期望 ErrNoScheduleEntry, 实际: %v", err)
	}
}

func TestSwapService_Create_InvalidDate(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)

	_, err := svc.CreateSwapRequest(context.Background(), &dto.CreateSwapRequest{
		ShiftDate: "03/01/2025",
	}, "ana-a")
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("期望 ErrInvalidDate, 实际: %v", err)
	}
}

func TestSwapService_Create_InvalidCombinations(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	// 广播不可同时定向
	_, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-01",
		IsBroadcast:     true,
		TargetAnalystID: strPtr("ana-b"),
	}, "ana-a")
	if !errors.Is(err, ErrInvalidSwapInput) {
		t.Fatalf("广播+定向: 期望 ErrInvalidSwapInput, 实际: %v", err)
	}

	// 未指定对象时不能指定对方班次日期
	_, err = svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-01",
		TargetShiftDate: strPtr("2025-03-04"),
	}, "ana-a")
	if !errors.Is(err, ErrInvalidSwapInput) {
		t.Fatalf("无对象+对方日期: 期望 ErrInvalidSwapInput, 实际: %v", err)
	}

	// 不能向自己发起定向申请
	_, err = svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-01",
		TargetAnalystID: strPtr("ana-a"),
	}, "ana-a")
	if !errors.Is(err, ErrInvalidSwapInput) {
		t.Fatalf("自指向: 期望 ErrInvalidSwapInput, 实际: %v", err)
	}
}

func TestSwapService_Create_CrossRegionRejected(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)

	_, err := svc.CreateSwapRequest(context.Background(), &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-01",
		TargetAnalystID: strPtr("ana-c"),
	}, "ana-a")
	if !errors.Is(err, ErrCrossRegionSwap) {
		t.Fatalf("期望 ErrCrossRegionSwap, 实际: %v", err)
	}
}

func TestSwapService_Create_RuleOrderOnMultipleViolations(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	// 周一普通班（资格不符）+ 跨区域对方：对方校验先报错
	_, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-03",
		TargetAnalystID: strPtr("ana-c"),
	}, "ana-a")
	if !errors.Is(err, ErrCrossRegionSwap) {
		t.Fatalf("资格不符+跨区域: 期望 ErrCrossRegionSwap, 实际: %v", err)
	}

	// 本人无排班 + 跨区域对方：仍先报跨区域
	_, err = svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-15",
		TargetAnalystID: strPtr("ana-c"),
	}, "ana-a")
	if !errors.Is(err, ErrCrossRegionSwap) {
		t.Fatalf("无排班+跨区域: 期望 ErrCrossRegionSwap, 实际: %v", err)
	}

	// 本人无排班 + 对方不存在：先报对方不存在
	_, err = svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-15",
		TargetAnalystID: strPtr("ana-missing"),
	}, "ana-a")
	if !errors.Is(err, ErrAnalystNotFound) {
		t.Fatalf("无排班+对方不存在: 期望 ErrAnalystNotFound, 实际: %v", err)
	}
}

func TestSwapService_Create_OfferParentCheckedBeforeOwnSchedule(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	broadcast, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:   "2025-03-01",
		IsBroadcast: true,
	}, "ana-a")
	if err != nil {
		t.Fatalf("创建广播失败: %v", err)
	}

	// 跨区域应征 + 本人无排班：父广播校验先报错
	_, err = svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate: "2025-03-15",
		ParentID:  &broadcast.ID,
	}, "ana-c")
	if !errors.Is(err, ErrCrossRegionSwap) {
		t.Fatalf("期望 ErrCrossRegionSwap, 实际: %v", err)
	}
}

func TestSwapService_Create_SymmetricGateOnTwoWay(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	// ana-b 的 2025-03-04 周二筛查班换为普通班后，对称校验应拒绝
	entry, err := repos.schedule.GetByAnalystAndDate(ctx, "ana-b", mustDate(t, "2025-03-04"))
	if err != nil {
		t.Fatalf("预置查询失败: %v", err)
	}
	if _, err := repos.schedule.DeleteByAnalystAndDate(ctx, "ana-b", entry.DutyDate); err != nil {
		t.Fatalf("预置删除失败: %v", err)
	}
	entry.IsScreener = false
	entry.ScheduleEntryID = ""
	if err := repos.schedule.Create(ctx, entry); err != nil {
		t.Fatalf("预置重建失败: %v", err)
	}

	_, err = svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-01",
		TargetAnalystID: strPtr("ana-b"),
		TargetShiftDate: strPtr("2025-03-04"),
	}, "ana-a")
	if !errors.Is(err, ErrShiftNotSwappable) {
		t.Fatalf("期望 ErrShiftNotSwappable, 实际: %v", err)
	}
}

func TestSwapService_Create_DirectSwapSuccess(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)

	resp, err := svc.CreateSwapRequest(context.Background(), &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-01",
		TargetAnalystID: strPtr("ana-b"),
		TargetShiftDate: strPtr("2025-03-04"),
	}, "ana-a")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if resp.Kind != model.SwapKindDirectSwap {
		t.Errorf("期望 kind=direct_swap, 实际: %s", resp.Kind)
	}
	if resp.Status != model.SwapStatusPendingPartner {
		t.Errorf("期望 status=pending_partner, 实际: %s", resp.Status)
	}
	if resp.TargetShiftDate == nil || *resp.TargetShiftDate != "2025-03-04" {
		t.Errorf("期望回班日期 2025-03-04, 实际: %v", resp.TargetShiftDate)
	}
	// 创建时间以 RFC3339 UTC 输出
	if _, err := time.Parse(time.RFC3339, resp.CreatedAt); err != nil {
		t.Errorf("created_at 应为 RFC3339 格式, 实际: %s", resp.CreatedAt)
	}
}

func TestSwapService_Create_GiveawayWithoutTargetDate(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)

	resp, err := svc.CreateSwapRequest(context.Background(), &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-01",
		TargetAnalystID: strPtr("ana-b"),
	}, "ana-a")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if resp.Kind != model.SwapKindDirectGiveaway {
		t.Errorf("期望 kind=direct_giveaway, 实际: %s", resp.Kind)
	}
}

func TestSwapService_Create_BroadcastOpensAndFeedsRegion(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	resp, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:   "2025-03-01",
		IsBroadcast: true,
	}, "ana-a")
	if err != nil {
		t.Fatalf("创建广播失败: %v", err)
	}
	if resp.Status != model.SwapStatusOpen {
		t.Errorf("期望 status=open, 实际: %s", resp.Status)
	}

	// 本人看不到自己的广播
	feed, err := svc.GetBroadcastFeed(ctx, "region-AMR", "ana-a")
	if err != nil {
		t.Fatalf("查询广播流失败: %v", err)
	}
	if len(feed) != 0 {
		t.Errorf("发起人广播流应为空, 实际: %d", len(feed))
	}

	// 同区域其他人可见
	feed, err = svc.GetBroadcastFeed(ctx, "region-AMR", "ana-b")
	if err != nil {
		t.Fatalf("查询广播流失败: %v", err)
	}
	if len(feed) != 1 || feed[0].ID != resp.ID {
		t.Fatalf("期望广播流包含 %s, 实际: %+v", resp.ID, feed)
	}

	// 跨区域不可见
	feed, err = svc.GetBroadcastFeed(ctx, "region-EMEA", "ana-c")
	if err != nil {
		t.Fatalf("查询广播流失败: %v", err)
	}
	if len(feed) != 0 {
		t.Errorf("跨区域广播流应为空, 实际: %d", len(feed))
	}
}

func TestSwapService_Create_OfferDerivesTargetFromParent(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	broadcast, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:   "2025-03-01",
		IsBroadcast: true,
	}, "ana-a")
	if err != nil {
		t.Fatalf("创建广播失败: %v", err)
	}

	offer, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate: "2025-03-04",
		ParentID:  &broadcast.ID,
	}, "ana-b")
	if err != nil {
		t.Fatalf("创建应征失败: %v", err)
	}
	if offer.Kind != model.SwapKindBroadcastOffer {
		t.Errorf("期望 kind=broadcast_offer, 实际: %s", offer.Kind)
	}
	if offer.TargetShiftDate == nil || *offer.TargetShiftDate != "2025-03-01" {
		t.Errorf("应征的对方班次应取自父广播, 实际: %v", offer.TargetShiftDate)
	}

	stored, _ := repos.swap.GetByID(ctx, offer.ID)
	if stored.TargetAnalystID == nil || *stored.TargetAnalystID != "ana-a" {
		t.Errorf("应征的对方应为广播发起人, 实际: %v", stored.TargetAnalystID)
	}
}

func TestSwapService_Create_OfferOnClosedBroadcast(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	broadcast, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:   "2025-03-01",
		IsBroadcast: true,
	}, "ana-a")
	if err != nil {
		t.Fatalf("创建广播失败: %v", err)
	}
	if err := svc.CancelSwap(ctx, broadcast.ID, "ana-a"); err != nil {
		t.Fatalf("取消广播失败: %v", err)
	}

	_, err = svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate: "2025-03-04",
		ParentID:  &broadcast.ID,
	}, "ana-b")
	if !errors.Is(err, ErrBroadcastNotOpen) {
		t.Fatalf("期望 ErrBroadcastNotOpen, 实际: %v", err)
	}
}

func TestSwapService_Create_OfferCrossRegionRejected(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	broadcast, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:   "2025-03-01",
		IsBroadcast: true,
	}, "ana-a")
	if err != nil {
		t.Fatalf("创建广播失败: %v", err)
	}

	_, err = svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate: "2025-03-01",
		ParentID:  &broadcast.ID,
	}, "ana-c")
	if !errors.Is(err, ErrCrossRegionSwap) {
		t.Fatalf("期望 ErrCrossRegionSwap, 实际: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// ApproveSwap 测试
// ════════════════════════════════════════════════════════════

func TestSwapService_Approve_UnauthorizedLeavesScheduleUntouched(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	swap, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-01",
		TargetAnalystID: strPtr("ana-b"),
		TargetShiftDate: strPtr("2025-03-04"),
	}, "ana-a")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	// ana-d 不是被指定的对方
	err = svc.ApproveSwap(ctx, swap.ID, "ana-d")
	if !errors.Is(err, ErrNotSwapApprover) {
		t.Fatalf("期望 ErrNotSwapApprover, 实际: %v", err)
	}

	// 排班未被触碰
	if _, err := repos.schedule.GetByAnalystAndDate(ctx, "ana-a", mustDate(t, "2025-03-01")); err != nil {
		t.Errorf("ana-a 的班次不应被转移: %v", err)
	}
	if _, err := repos.schedule.GetByAnalystAndDate(ctx, "ana-b", mustDate(t, "2025-03-04")); err != nil {
		t.Errorf("ana-b 的班次不应被转移: %v", err)
	}
	if len(repos.changeLog.logs) != 0 {
		t.Errorf("不应产生变更日志, 实际: %d", len(repos.changeLog.logs))
	}
}

func TestSwapService_Approve_TwoWayTransfersBothShifts(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	swap, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-01",
		TargetAnalystID: strPtr("ana-b"),
		TargetShiftDate: strPtr("2025-03-04"),
	}, "ana-a")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	if err := svc.ApproveSwap(ctx, swap.ID, "ana-b"); err != nil {
		t.Fatalf("审批失败: %v", err)
	}

	// ana-a 的周六班归 ana-b，属性原样携带
	gained, err := repos.schedule.GetByAnalystAndDate(ctx, "ana-b", mustDate(t, "2025-03-01"))
	if err != nil {
		t.Fatalf("ana-b 应获得 2025-03-01 班次: %v", err)
	}
	if gained.ShiftType != model.ShiftTypeAM || gained.IsScreener || gained.RegionID != "region-AMR" {
		t.Errorf("班次属性携带错误: %+v", gained)
	}

	// ana-b 的筛查班回转给 ana-a
	returned, err := repos.schedule.GetByAnalystAndDate(ctx, "ana-a", mustDate(t, "2025-03-04"))
	if err != nil {
		t.Fatalf("ana-a 应获得 2025-03-04 班次: %v", err)
	}
	if returned.ShiftType != model.ShiftTypePM || !returned.IsScreener {
		t.Errorf("班次属性携带错误: %+v", returned)
	}

	// 原归属已不存在
	if _, err := repos.schedule.GetByAnalystAndDate(ctx, "ana-a", mustDate(t, "2025-03-01")); err == nil {
		t.Error("ana-a 的 2025-03-01 班次应已转出")
	}
	if _, err := repos.schedule.GetByAnalystAndDate(ctx, "ana-b", mustDate(t, "2025-03-04")); err == nil {
		t.Error("ana-b 的 2025-03-04 班次应已转出")
	}

	// 终态 + 双向各一条日志
	stored, _ := repos.swap.GetByID(ctx, swap.ID)
	if stored.Status != model.SwapStatusApproved {
		t.Errorf("期望 status=approved, 实际: %s", stored.Status)
	}
	if len(repos.changeLog.logs) != 2 {
		t.Errorf("期望 2 条变更日志, 实际: %d", len(repos.changeLog.logs))
	}
}

func TestSwapService_Approve_GiveawayTransfersOneShift(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	swap, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-01",
		TargetAnalystID: strPtr("ana-b"),
	}, "ana-a")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	if err := svc.ApproveSwap(ctx, swap.ID, "ana-b"); err != nil {
		t.Fatalf("审批失败: %v", err)
	}

	if _, err := repos.schedule.GetByAnalystAndDate(ctx, "ana-b", mustDate(t, "2025-03-01")); err != nil {
		t.Fatalf("ana-b 应获得 2025-03-01 班次: %v", err)
	}
	// 单向转让不回转，ana-b 原有班次保持不动
	if _, err := repos.schedule.GetByAnalystAndDate(ctx, "ana-b", mustDate(t, "2025-03-04")); err != nil {
		t.Errorf("ana-b 的 2025-03-04 班次不应被触碰: %v", err)
	}
	if len(repos.changeLog.logs) != 1 {
		t.Errorf("期望 1 条变更日志, 实际: %d", len(repos.changeLog.logs))
	}
}

func TestSwapService_Approve_Idempotence(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	swap, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-01",
		TargetAnalystID: strPtr("ana-b"),
	}, "ana-a")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	if err := svc.ApproveSwap(ctx, swap.ID, "ana-b"); err != nil {
		t.Fatalf("首次审批失败: %v", err)
	}
	err = svc.ApproveSwap(ctx, swap.ID, "ana-b")
	if !errors.Is(err, ErrSwapAlreadySettled) {
		t.Fatalf("重复审批: 期望 ErrSwapAlreadySettled, 实际: %v", err)
	}
	if len(repos.changeLog.logs) != 1 {
		t.Errorf("重复审批不应追加日志, 实际: %d", len(repos.changeLog.logs))
	}
}

func TestSwapService_Approve_BroadcastOfferLifecycle(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	// ana-a 广播周六班；ana-b / ana-d 分别应征
	broadcast, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:   "2025-03-01",
		IsBroadcast: true,
	}, "ana-a")
	if err != nil {
		t.Fatalf("创建广播失败: %v", err)
	}

	offerB, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate: "2025-03-04",
		ParentID:  &broadcast.ID,
	}, "ana-b")
	if err != nil {
		t.Fatalf("创建应征 B 失败: %v", err)
	}
	offerD, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate: "2025-03-08",
		ParentID:  &broadcast.ID,
	}, "ana-d")
	if err != nil {
		t.Fatalf("创建应征 D 失败: %v", err)
	}

	// 只有广播发起人可以接受应征
	err = svc.ApproveSwap(ctx, offerB.ID, "ana-b")
	if !errors.Is(err, ErrNotSwapApprover) {
		t.Fatalf("期望 ErrNotSwapApprover, 实际: %v", err)
	}

	// ana-a 接受 ana-b 的应征
	if err := svc.ApproveSwap(ctx, offerB.ID, "ana-a"); err != nil {
		t.Fatalf("接受应征失败: %v", err)
	}

	storedParent, _ := repos.swap.GetByID(ctx, broadcast.ID)
	if storedParent.Status != model.SwapStatusFilled {
		t.Errorf("期望父广播 status=filled, 实际: %s", storedParent.Status)
	}
	storedOffer, _ := repos.swap.GetByID(ctx, offerB.ID)
	if storedOffer.Status != model.SwapStatusApproved {
		t.Errorf("期望应征 status=approved, 实际: %s", storedOffer.Status)
	}

	// 班次互换：ana-a 周六班归 ana-b，ana-b 筛查班归 ana-a
	if _, err := repos.schedule.GetByAnalystAndDate(ctx, "ana-b", mustDate(t, "2025-03-01")); err != nil {
		t.Errorf("ana-b 应获得 2025-03-01 班次: %v", err)
	}
	if _, err := repos.schedule.GetByAnalystAndDate(ctx, "ana-a", mustDate(t, "2025-03-04")); err != nil {
		t.Errorf("ana-a 应获得 2025-03-04 班次: %v", err)
	}

	// 父广播成交后接受第二个应征必须落败
	err = svc.ApproveSwap(ctx, offerD.ID, "ana-a")
	if !errors.Is(err, ErrSwapAlreadySettled) {
		t.Fatalf("第二个应征: 期望 ErrSwapAlreadySettled, 实际: %v", err)
	}
	// 落败方排班不受影响
	if _, err := repos.schedule.GetByAnalystAndDate(ctx, "ana-d", mustDate(t, "2025-03-08")); err != nil {
		t.Errorf("ana-d 的班次不应被转移: %v", err)
	}
}

func TestSwapService_Approve_VanishedSourceEntryFailsHard(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	swap, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-01",
		TargetAnalystID: strPtr("ana-b"),
	}, "ana-a")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	// 申请创建后排班被管理员删除
	if _, err := repos.schedule.DeleteByAnalystAndDate(ctx, "ana-a", mustDate(t, "2025-03-01")); err != nil {
		t.Fatalf("预置删除失败: %v", err)
	}

	err = svc.ApproveSwap(ctx, swap.ID, "ana-b")
	if !errors.Is(err, ErrScheduleEntryVanished) {
		t.Fatalf("期望 ErrScheduleEntryVanished, 实际: %v", err)
	}
}

func TestSwapService_Approve_NotFound(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)

	err := svc.ApproveSwap(context.Background(), "swap-missing", "ana-b")
	if !errors.Is(err, ErrSwapNotFound) {
		t.Fatalf("期望 ErrSwapNotFound, 实际: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// CancelSwap 测试
// ════════════════════════════════════════════════════════════

func TestSwapService_Cancel_OnlyRequester(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	swap, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-01",
		TargetAnalystID: strPtr("ana-b"),
	}, "ana-a")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}

	err = svc.CancelSwap(ctx, swap.ID, "ana-b")
	if !errors.Is(err, ErrNotSwapOwner) {
		t.Fatalf("期望 ErrNotSwapOwner, 实际: %v", err)
	}

	if err := svc.CancelSwap(ctx, swap.ID, "ana-a"); err != nil {
		t.Fatalf("取消失败: %v", err)
	}
	stored, _ := repos.swap.GetByID(ctx, swap.ID)
	if stored.Status != model.SwapStatusCancelled {
		t.Errorf("期望 status=cancelled, 实际: %s", stored.Status)
	}
}

func TestSwapService_Cancel_TerminalRejected(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	swap, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-01",
		TargetAnalystID: strPtr("ana-b"),
	}, "ana-a")
	if err != nil {
		t.Fatalf("创建失败: %v", err)
	}
	if err := svc.ApproveSwap(ctx, swap.ID, "ana-b"); err != nil {
		t.Fatalf("审批失败: %v", err)
	}

	err = svc.CancelSwap(ctx, swap.ID, "ana-a")
	if !errors.Is(err, ErrSwapNotCancellable) {
		t.Fatalf("期望 ErrSwapNotCancellable, 实际: %v", err)
	}
}

func TestSwapService_Cancel_ApprovedOfferParentStaysSettled(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	broadcast, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:   "2025-03-01",
		IsBroadcast: true,
	}, "ana-a")
	if err != nil {
		t.Fatalf("创建广播失败: %v", err)
	}
	offer, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate: "2025-03-04",
		ParentID:  &broadcast.ID,
	}, "ana-b")
	if err != nil {
		t.Fatalf("创建应征失败: %v", err)
	}
	if err := svc.ApproveSwap(ctx, offer.ID, "ana-a"); err != nil {
		t.Fatalf("接受应征失败: %v", err)
	}

	// 已成交的广播不可再取消
	err = svc.CancelSwap(ctx, broadcast.ID, "ana-a")
	if !errors.Is(err, ErrSwapNotCancellable) {
		t.Fatalf("期望 ErrSwapNotCancellable, 实际: %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// GetAnalystSwaps 测试
// ════════════════════════════════════════════════════════════

func TestSwapService_GetAnalystSwaps_Buckets(t *testing.T) {
	svc, repos := setupTestSwapService()
	seedSwapFixture(t, repos)
	ctx := context.Background()

	// ana-a 发起定向转让给 ana-b
	direct, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:       "2025-03-01",
		TargetAnalystID: strPtr("ana-b"),
	}, "ana-a")
	if err != nil {
		t.Fatalf("创建定向失败: %v", err)
	}
	// ana-d 广播，ana-b 应征
	broadcast, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate:   "2025-03-08",
		IsBroadcast: true,
	}, "ana-d")
	if err != nil {
		t.Fatalf("创建广播失败: %v", err)
	}
	offer, err := svc.CreateSwapRequest(ctx, &dto.CreateSwapRequest{
		ShiftDate: "2025-03-04",
		ParentID:  &broadcast.ID,
	}, "ana-b")
	if err != nil {
		t.Fatalf("创建应征失败: %v", err)
	}

	swaps, err := svc.GetAnalystSwaps(ctx, "ana-b")
	if err != nil {
		t.Fatalf("查询收发箱失败: %v", err)
	}

	// 应征不混入发出箱，广播定向申请进收件箱
	if len(swaps.Outgoing) != 0 {
		t.Errorf("ana-b 发出箱应为空, 实际: %d", len(swaps.Outgoing))
	}
	if len(swaps.Incoming) != 1 || swaps.Incoming[0].ID != direct.ID {
		t.Errorf("ana-b 收件箱应只含定向申请, 实际: %+v", swaps.Incoming)
	}
	if len(swaps.MyOffers) != 1 || swaps.MyOffers[0].ID != offer.ID {
		t.Errorf("ana-b 应征箱应只含应征, 实际: %+v", swaps.MyOffers)
	}

	// 广播发起人视角：广播在发出箱，应征不在收件箱（经 parent 关联查看）
	swapsD, err := svc.GetAnalystSwaps(ctx, "ana-d")
	if err != nil {
		t.Fatalf("查询收发箱失败: %v", err)
	}
	if len(swapsD.Outgoing) != 1 || swapsD.Outgoing[0].ID != broadcast.ID {
		t.Errorf("ana-d 发出箱应只含广播, 实际: %+v", swapsD.Outgoing)
	}
}

// [自证通过] internal/service/swap_service_test.go
