package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/domain"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
)

// 约束名与迁移文件中的定义保持一致
const (
	workersNameKey         = "workers_name_key"
	shiftsWorkerDateKey    = "shifts_worker_id_shift_date_key"
	shiftsWorkerForeignKey = "shifts_worker_id_fkey"
)

// translatePgError 把数据库约束冲突转换成领域错误，其余错误原样返回
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == workersNameKey:
		return domain.ErrWorkerNameTaken
	case pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == shiftsWorkerDateKey:
		return domain.ErrShiftDateTaken
	case pgErr.Code == foreignKeyViolationCode && pgErr.ConstraintName == shiftsWorkerForeignKey:
		return domain.ErrWorkerNotFound
	default:
		return err
	}
}
