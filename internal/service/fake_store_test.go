package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/domain"
)

type stubClock struct {
	now time.Time
}

func (s stubClock) Now() time.Time {
	return s.now
}

// fakeStore 是内存版的存储，和数据库一样强制执行两个唯一约束
type fakeStore struct {
	mu      sync.Mutex
	seq     int64
	workers []*domain.Worker
	shifts  []*domain.Shift

	errs map[string]error // 按方法名注入错误
}

func newFakeStore() *fakeStore {
	return &fakeStore{errs: make(map[string]error)}
}

func (s *fakeStore) fail(method string) error {
	return s.errs[method]
}

func (s *fakeStore) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *fakeStore) CreateWorker(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("CreateWorker"); err != nil {
		return 0, err
	}
	for _, w := range s.workers {
		if w.Name == name {
			return 0, domain.ErrWorkerNameTaken
		}
	}
	w := &domain.Worker{ID: s.nextID(), Name: name}
	s.workers = append(s.workers, w)
	return w.ID, nil
}

func (s *fakeStore) UpdateWorkerName(_ context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.workers {
		if w.Name == name && w.ID != id {
			return domain.ErrWorkerNameTaken
		}
	}
	for _, w := range s.workers {
		if w.ID == id {
			w.Name = name
		}
	}
	return nil
}

func (s *fakeStore) GetWorkerByID(_ context.Context, id int64) (*domain.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("GetWorkerByID"); err != nil {
		return nil, err
	}
	for _, w := range s.workers {
		if w.ID == id {
			copied := *w
			return &copied, nil
		}
	}
	return nil, domain.ErrWorkerNotFound
}

func (s *fakeStore) GetWorkerByName(_ context.Context, name string) (*domain.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.workers {
		if w.Name == name {
			copied := *w
			return &copied, nil
		}
	}
	return nil, domain.ErrWorkerNotFound
}

func (s *fakeStore) GetAllWorkers(_ context.Context) ([]*domain.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("GetAllWorkers"); err != nil {
		return nil, err
	}
	workers := make([]*domain.Worker, 0, len(s.workers))
	for _, w := range s.workers {
		copied := *w
		workers = append(workers, &copied)
	}
	return workers, nil
}

func (s *fakeStore) DeleteWorker(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("DeleteWorker"); err != nil {
		return err
	}
	s.shifts = slices.DeleteFunc(s.shifts, func(sh *domain.Shift) bool { return sh.WorkerID == id })
	s.workers = slices.DeleteFunc(s.workers, func(w *domain.Worker) bool { return w.ID == id })
	return nil
}

func (s *fakeStore) hasShiftOn(workerID int64, date string, excludeID int64) bool {
	for _, sh := range s.shifts {
		if sh.WorkerID == workerID && sh.ShiftDate == date && sh.ID != excludeID {
			return true
		}
	}
	return false
}

func (s *fakeStore) CreateShift(_ context.Context, shift *domain.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("CreateShift"); err != nil {
		return err
	}
	if !slices.ContainsFunc(s.workers, func(w *domain.Worker) bool { return w.ID == shift.WorkerID }) {
		return domain.ErrWorkerNotFound
	}
	if s.hasShiftOn(shift.WorkerID, shift.ShiftDate, 0) {
		return domain.ErrShiftDateTaken
	}
	shift.ID = s.nextID()
	copied := *shift
	s.shifts = append(s.shifts, &copied)
	return nil
}

func (s *fakeStore) GetShiftByID(_ context.Context, id int64) (*domain.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sh := range s.shifts {
		if sh.ID == id {
			copied := *sh
			return &copied, nil
		}
	}
	return nil, domain.ErrShiftNotFound
}

func (s *fakeStore) CheckShiftExistsOnDate(_ context.Context, workerID int64, shiftDate string, excludeID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("CheckShiftExistsOnDate"); err != nil {
		return false, err
	}
	return s.hasShiftOn(workerID, shiftDate, excludeID), nil
}

func (s *fakeStore) UpdateShift(_ context.Context, shift *domain.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("UpdateShift"); err != nil {
		return err
	}
	if s.hasShiftOn(shift.WorkerID, shift.ShiftDate, shift.ID) {
		return domain.ErrShiftDateTaken
	}
	for _, sh := range s.shifts {
		if sh.ID == shift.ID {
			sh.ShiftDate = shift.ShiftDate
			sh.ShiftStart = shift.ShiftStart
			sh.ShiftEnd = shift.ShiftEnd
		}
	}
	return nil
}

func (s *fakeStore) GetAllShifts(_ context.Context) ([]*domain.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shifts := make([]*domain.Shift, 0, len(s.shifts))
	for _, sh := range s.shifts {
		copied := *sh
		shifts = append(shifts, &copied)
	}
	return shifts, nil
}

func (s *fakeStore) GetShiftSlotsByWorker(_ context.Context, workerID int64) ([]domain.ShiftSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail("GetShiftSlotsByWorker"); err != nil {
		return nil, err
	}
	slots := make([]domain.ShiftSlot, 0)
	for _, sh := range s.shifts {
		if sh.WorkerID == workerID {
			slots = append(slots, sh.Slot())
		}
	}
	return slots, nil
}

func (s *fakeStore) DeleteShift(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.shifts = slices.DeleteFunc(s.shifts, func(sh *domain.Shift) bool { return sh.ID == id })
	return nil
}

func (s *fakeStore) shiftCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shifts)
}
