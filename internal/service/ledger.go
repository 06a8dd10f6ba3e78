package service

import (
	"context"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

const defaultFanOut = 8

// Ledger 管理班次，保证每个工人每天至多一个班次
type Ledger struct {
	store  ShiftStore
	clock  Clock
	fanOut int
}

// NewLedger 创建班次台账。clock 为 nil 时使用系统时间，fanOut 不大于 0 时使用默认并发数。
func NewLedger(store ShiftStore, clock Clock, fanOut int) *Ledger {
	if clock == nil {
		clock = realClock{}
	}
	if fanOut <= 0 {
		fanOut = defaultFanOut
	}
	return &Ledger{store: store, clock: clock, fanOut: fanOut}
}

// Today 返回服务器本地时区的当前日期
func (l *Ledger) Today() string {
	return l.clock.Now().Format(domain.DateLayout)
}

// AddShift 为工人在今天添加一个班次
func (l *Ledger) AddShift(ctx context.Context, workerID int64, shiftStart int) (*domain.Shift, error) {
	if !domain.IsValidShiftStart(shiftStart) {
		return nil, domain.ErrInvalidShiftStart
	}
	return l.addShift(ctx, workerID, l.Today(), shiftStart)
}

// AddShiftOn 为工人在指定日期添加班次，供名册导入使用
func (l *Ledger) AddShiftOn(ctx context.Context, workerID int64, shiftDate string, shiftStart int) (*domain.Shift, error) {
	if !domain.IsValidShiftStart(shiftStart) {
		return nil, domain.ErrInvalidShiftStart
	}
	if !isValidDate(shiftDate) {
		return nil, domain.ErrInvalidShiftDate
	}
	return l.addShift(ctx, workerID, shiftDate, shiftStart)
}

func (l *Ledger) addShift(ctx context.Context, workerID int64, shiftDate string, shiftStart int) (*domain.Shift, error) {
	if _, err := l.store.GetWorkerByID(ctx, workerID); err != nil {
		return nil, classify(err)
	}

	exists, err := l.store.CheckShiftExistsOnDate(ctx, workerID, shiftDate, 0)
	if err != nil {
		return nil, classify(err)
	}
	if exists {
		return nil, domain.ErrShiftDateTaken
	}

	shift := &domain.Shift{
		WorkerID:   workerID,
		ShiftDate:  shiftDate,
		ShiftStart: shiftStart,
		ShiftEnd:   domain.ShiftEnd(shiftStart),
	}

	// 并发添加时预检查可能都通过，此时由唯一约束返回冲突
	if err := l.store.CreateShift(ctx, shift); err != nil {
		return nil, classify(err)
	}

	return shift, nil
}

// UpdateShift 修改班次的日期和开始时间。shiftDate 为空时保留原日期。
func (l *Ledger) UpdateShift(ctx context.Context, id int64, shiftDate string, shiftStart int) (*domain.Shift, error) {
	if !domain.IsValidShiftStart(shiftStart) {
		return nil, domain.ErrInvalidShiftStart
	}
	if shiftDate != "" && !isValidDate(shiftDate) {
		return nil, domain.ErrInvalidShiftDate
	}

	shift, err := l.store.GetShiftByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}

	if shiftDate != "" {
		shift.ShiftDate = shiftDate
	}

	exists, err := l.store.CheckShiftExistsOnDate(ctx, shift.WorkerID, shift.ShiftDate, shift.ID)
	if err != nil {
		return nil, classify(err)
	}
	if exists {
		return nil, domain.ErrUpdatedShiftDateTaken
	}

	shift.ShiftStart = shiftStart
	shift.ShiftEnd = domain.ShiftEnd(shiftStart)

	if err := l.store.UpdateShift(ctx, shift); err != nil {
		if errors.Is(err, domain.ErrShiftDateTaken) {
			return nil, domain.ErrUpdatedShiftDateTaken
		}
		return nil, classify(err)
	}

	return shift, nil
}

func (l *Ledger) List(ctx context.Context) ([]*domain.Shift, error) {
	shifts, err := l.store.GetAllShifts(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return shifts, nil
}

func (l *Ledger) GetByWorker(ctx context.Context, workerID int64) (*domain.WorkerShifts, error) {
	worker, err := l.store.GetWorkerByID(ctx, workerID)
	if err != nil {
		return nil, classify(err)
	}

	slots, err := l.store.GetShiftSlotsByWorker(ctx, workerID)
	if err != nil {
		return nil, classify(err)
	}

	return &domain.WorkerShifts{Name: worker.Name, Shifts: slots}, nil
}

// ListWithWorkers 并发查询每个工人的班次，结果顺序与工人列表一致。
// 任意一个查询失败都会取消其余查询并返回该错误，不返回部分结果。
func (l *Ledger) ListWithWorkers(ctx context.Context) ([]*domain.WorkerShifts, error) {
	workers, err := l.store.GetAllWorkers(ctx)
	if err != nil {
		return nil, classify(err)
	}

	result := make([]*domain.WorkerShifts, len(workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.fanOut)
	for i, worker := range workers {
		g.Go(func() error {
			slots, err := l.store.GetShiftSlotsByWorker(gctx, worker.ID)
			if err != nil {
				return err
			}
			result[i] = &domain.WorkerShifts{Name: worker.Name, Shifts: slots}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, classify(err)
	}

	return result, nil
}

// Delete 删除不存在的班次不视为错误
func (l *Ledger) Delete(ctx context.Context, id int64) error {
	if err := l.store.DeleteShift(ctx, id); err != nil {
		return classify(err)
	}
	return nil
}

func isValidDate(s string) bool {
	_, err := time.Parse(domain.DateLayout, s)
	return err == nil
}
