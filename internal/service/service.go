// Package service 实现名册的核心规则：工人名录与班次台账。
//
// 所有唯一性约束最终由数据库保证，这里的预先检查只用于尽早拒绝请求并给出更清楚的错误信息。
package service

import (
	"context"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/domain"
)

// Clock 提供当前时间，测试中可以替换
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// WorkerStore 是工人名录依赖的存储接口，由 repository.Repository 实现
type WorkerStore interface {
	CreateWorker(ctx context.Context, name string) (int64, error)
	UpdateWorkerName(ctx context.Context, id int64, name string) error
	GetWorkerByID(ctx context.Context, id int64) (*domain.Worker, error)
	GetWorkerByName(ctx context.Context, name string) (*domain.Worker, error)
	GetAllWorkers(ctx context.Context) ([]*domain.Worker, error)
	DeleteWorker(ctx context.Context, id int64) error
}

// ShiftStore 是班次台账依赖的存储接口，由 repository.Repository 实现
type ShiftStore interface {
	GetWorkerByID(ctx context.Context, id int64) (*domain.Worker, error)
	GetAllWorkers(ctx context.Context) ([]*domain.Worker, error)
	CreateShift(ctx context.Context, shift *domain.Shift) error
	GetShiftByID(ctx context.Context, id int64) (*domain.Shift, error)
	CheckShiftExistsOnDate(ctx context.Context, workerID int64, shiftDate string, excludeID int64) (bool, error)
	UpdateShift(ctx context.Context, shift *domain.Shift) error
	GetAllShifts(ctx context.Context) ([]*domain.Shift, error)
	GetShiftSlotsByWorker(ctx context.Context, workerID int64) ([]domain.ShiftSlot, error)
	DeleteShift(ctx context.Context, id int64) error
}

// classify 保留已归类的领域错误，其余错误一律视为存储错误
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrStorage):
		return err
	default:
		return domain.NewStorageError(err)
	}
}
