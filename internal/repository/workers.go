package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/domain"
)

func (r *Repository) CreateWorker(ctx context.Context, name string) (int64, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO workers (name)
		VALUES ($1)
		RETURNING id
	`

	var id int64
	if err := r.dbpool.QueryRow(ctx, query, name).Scan(&id); err != nil {
		return 0, translatePgError(err)
	}

	return id, nil
}

// UpdateWorkerName 不检查工人是否存在，id 不存在时什么也不做
func (r *Repository) UpdateWorkerName(ctx context.Context, id int64, name string) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		UPDATE workers SET name = $1 WHERE id = $2
	`

	if _, err := r.dbpool.Exec(ctx, query, name, id); err != nil {
		return translatePgError(err)
	}

	return nil
}

func (r *Repository) GetWorkerByID(ctx context.Context, id int64) (*domain.Worker, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT name FROM workers WHERE id = $1
	`

	worker := &domain.Worker{
		ID: id,
	}

	if err := r.dbpool.QueryRow(ctx, query, id).Scan(&worker.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkerNotFound
		}
		return nil, err
	}

	return worker, nil
}

func (r *Repository) GetWorkerByName(ctx context.Context, name string) (*domain.Worker, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT id FROM workers WHERE name = $1
	`

	worker := &domain.Worker{
		Name: name,
	}

	if err := r.dbpool.QueryRow(ctx, query, name).Scan(&worker.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkerNotFound
		}
		return nil, err
	}

	return worker, nil
}

func (r *Repository) GetAllWorkers(ctx context.Context) ([]*domain.Worker, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT id, name FROM workers ORDER BY id
	`

	rows, err := r.dbpool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]*domain.Worker, 0)
	for rows.Next() {
		worker := &domain.Worker{}
		if err := rows.Scan(&worker.ID, &worker.Name); err != nil {
			return nil, err
		}
		workers = append(workers, worker)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workers, nil
}

// DeleteWorker 在同一个事务中先删除该工人的所有班次，再删除工人本身
func (r *Repository) DeleteWorker(ctx context.Context, id int64) error {
	ctx, cancel := r.transactionContext(ctx)
	defer cancel()

	tx, err := r.dbpool.Begin(ctx)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM shifts WHERE worker_id = $1`, id); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM workers WHERE id = $1`, id); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	committed = true

	return nil
}
