package service

import (
	"context"
	"strings"

	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/domain"
)

// Directory 管理工人名录，保证工人姓名唯一
type Directory struct {
	store WorkerStore
}

func NewDirectory(store WorkerStore) *Directory {
	return &Directory{store: store}
}

// Create 新建工人并返回其 id。姓名重名由数据库唯一约束判定。
func (d *Directory) Create(ctx context.Context, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, domain.ErrWorkerNameRequired
	}

	id, err := d.store.CreateWorker(ctx, name)
	if err != nil {
		return 0, classify(err)
	}

	return id, nil
}

// Update 直接修改姓名，不检查工人是否存在，也不校验姓名。
// 任何失败（包括重名）都作为存储错误返回。
func (d *Directory) Update(ctx context.Context, id int64, name string) error {
	if err := d.store.UpdateWorkerName(ctx, id, name); err != nil {
		return domain.NewStorageError(err)
	}
	return nil
}

func (d *Directory) List(ctx context.Context) ([]*domain.Worker, error) {
	workers, err := d.store.GetAllWorkers(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return workers, nil
}

func (d *Directory) FindByName(ctx context.Context, name string) (*domain.Worker, error) {
	worker, err := d.store.GetWorkerByName(ctx, name)
	if err != nil {
		return nil, classify(err)
	}
	return worker, nil
}

// Delete 连同该工人的所有班次一起删除，工人不存在时不报错
func (d *Directory) Delete(ctx context.Context, id int64) error {
	if err := d.store.DeleteWorker(ctx, id); err != nil {
		return classify(err)
	}
	return nil
}
