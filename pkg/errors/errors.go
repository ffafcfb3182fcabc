package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrStatusConflict 状态守卫更新未命中：记录已不处于期望的前置状态
// 换班审批等状态机转移依赖该错误识别并发竞争中落败的一方
var ErrStatusConflict = errors.New("记录状态已变更，操作未生效")
