package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/domain"
)

func parseShiftDate(s string) (time.Time, error) {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidShiftDate
	}
	return d, nil
}

func formatShiftDate(d time.Time) string {
	return d.Format(domain.DateLayout)
}

func (r *Repository) CreateShift(ctx context.Context, shift *domain.Shift) error {
	date, err := parseShiftDate(shift.ShiftDate)
	if err != nil {
		return err
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO shifts (worker_id, shift_date, shift_start, shift_end)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	args := []any{shift.WorkerID, date, shift.ShiftStart, shift.ShiftEnd}
	if err := r.dbpool.QueryRow(ctx, query, args...).Scan(&shift.ID); err != nil {
		return translatePgError(err)
	}

	return nil
}

func (r *Repository) GetShiftByID(ctx context.Context, id int64) (*domain.Shift, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT worker_id, shift_date, shift_start, shift_end
		FROM shifts WHERE id = $1
	`

	shift := &domain.Shift{
		ID: id,
	}

	var date time.Time
	dst := []any{&shift.WorkerID, &date, &shift.ShiftStart, &shift.ShiftEnd}
	if err := r.dbpool.QueryRow(ctx, query, id).Scan(dst...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrShiftNotFound
		}
		return nil, err
	}
	shift.ShiftDate = formatShiftDate(date)

	return shift, nil
}

// CheckShiftExistsOnDate 检查工人在某天是否已有班次，excludeID 对应的班次不计入（传 0 表示不排除）
func (r *Repository) CheckShiftExistsOnDate(ctx context.Context, workerID int64, shiftDate string, excludeID int64) (bool, error) {
	date, err := parseShiftDate(shiftDate)
	if err != nil {
		return false, err
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM shifts WHERE worker_id = $1 AND shift_date = $2 AND id <> $3)
	`

	isExists := false
	if err := r.dbpool.QueryRow(ctx, query, workerID, date, excludeID).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

func (r *Repository) UpdateShift(ctx context.Context, shift *domain.Shift) error {
	date, err := parseShiftDate(shift.ShiftDate)
	if err != nil {
		return err
	}

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		UPDATE shifts
		SET
			shift_date = $1,
			shift_start = $2,
			shift_end = $3
		WHERE id = $4
	`

	args := []any{date, shift.ShiftStart, shift.ShiftEnd, shift.ID}
	if _, err := r.dbpool.Exec(ctx, query, args...); err != nil {
		return translatePgError(err)
	}

	return nil
}

func (r *Repository) GetAllShifts(ctx context.Context) ([]*domain.Shift, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT id, worker_id, shift_date, shift_start, shift_end FROM shifts ORDER BY id
	`

	rows, err := r.dbpool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		shift := &domain.Shift{}
		var date time.Time
		dst := []any{&shift.ID, &shift.WorkerID, &date, &shift.ShiftStart, &shift.ShiftEnd}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		shift.ShiftDate = formatShiftDate(date)
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) GetShiftSlotsByWorker(ctx context.Context, workerID int64) ([]domain.ShiftSlot, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT shift_date, shift_start, shift_end
		FROM shifts WHERE worker_id = $1
		ORDER BY shift_date, id
	`

	rows, err := r.dbpool.Query(ctx, query, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]domain.ShiftSlot, 0)
	for rows.Next() {
		var slot domain.ShiftSlot
		var date time.Time
		if err := rows.Scan(&date, &slot.ShiftStart, &slot.ShiftEnd); err != nil {
			return nil, err
		}
		slot.ShiftDate = formatShiftDate(date)
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}

// DeleteShift 删除不存在的班次不视为错误
func (r *Repository) DeleteShift(ctx context.Context, id int64) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	if _, err := r.dbpool.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id); err != nil {
		return err
	}

	return nil
}
