package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/utils"
)

// Directory 由 service.Directory 实现
type Directory interface {
	Create(ctx context.Context, name string) (int64, error)
	FindByName(ctx context.Context, name string) (*domain.Worker, error)
}

// Ledger 由 service.Ledger 实现
type Ledger interface {
	AddShift(ctx context.Context, workerID int64, shiftStart int) (*domain.Shift, error)
	AddShiftOn(ctx context.Context, workerID int64, shiftDate string, shiftStart int) (*domain.Shift, error)
}

type Result struct {
	Workers int
	Shifts  int
	Skipped int
}

var rosterHeader = []string{"name", "shift_date", "shift_start"}

// isRowError 判断是否只是单行数据有问题，此时跳过该行继续导入
func isRowError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrNotFound)
}

// SeedRandomWorkers 插入 n 个随机工人，并为每个人安排一个今天的班次
func SeedRandomWorkers(ctx context.Context, dir Directory, ledger Ledger, n int) (Result, error) {
	res := Result{}
	if n <= 0 {
		return res, fmt.Errorf("工人数量必须大于 0: %d", n)
	}

	for i := 0; i < n; i++ {
		name := utils.GenerateRandomWorkerName()
		id, err := dir.Create(ctx, name)
		if err != nil {
			if isRowError(err) {
				// 随机姓名可能重复
				slog.Warn("跳过重复的工人", "name", name, "error", err)
				res.Skipped++
				continue
			}
			return res, err
		}
		res.Workers++

		if _, err := ledger.AddShift(ctx, id, utils.GenerateRandomShiftStart()); err != nil {
			return res, err
		}
		res.Shifts++
	}

	return res, nil
}

// ImportRoster 从 CSV 导入名册，表头必须是 name,shift_date,shift_start。
// 已存在的工人会被复用，有问题的行会被跳过。
func ImportRoster(ctx context.Context, dir Directory, ledger Ledger, r io.Reader) (Result, error) {
	res := Result{}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(rosterHeader)
	reader.TrimLeadingSpace = true

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		return res, fmt.Errorf("读取表头失败: %w", err)
	}
	for i, h := range headers {
		if !strings.EqualFold(strings.TrimSpace(h), rosterHeader[i]) {
			return res, fmt.Errorf("表头不正确: %v", headers)
		}
	}

	workerIDs := make(map[string]int64)
	line := 1
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return res, fmt.Errorf("读取文件失败: %w", err)
		}
		line++

		name := strings.TrimSpace(row[0])
		workerID, ok := workerIDs[name]
		if !ok {
			workerID, err = ensureWorker(ctx, dir, name, &res)
			if err != nil {
				if isRowError(err) {
					slog.Warn("跳过无效的行", "line", line, "error", err)
					res.Skipped++
					continue
				}
				return res, err
			}
			workerIDs[name] = workerID
		}

		start, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil {
			slog.Warn("跳过无效的行", "line", line, "error", domain.ErrInvalidShiftStart)
			res.Skipped++
			continue
		}

		if _, err := ledger.AddShiftOn(ctx, workerID, strings.TrimSpace(row[1]), start); err != nil {
			if isRowError(err) {
				slog.Warn("跳过无效的行", "line", line, "error", err)
				res.Skipped++
				continue
			}
			return res, err
		}
		res.Shifts++
	}

	return res, nil
}

func ensureWorker(ctx context.Context, dir Directory, name string, res *Result) (int64, error) {
	id, err := dir.Create(ctx, name)
	if err == nil {
		res.Workers++
		return id, nil
	}
	if !errors.Is(err, domain.ErrWorkerNameTaken) {
		return 0, err
	}

	w, err := dir.FindByName(ctx, name)
	if err != nil {
		return 0, err
	}
	return w.ID, nil
}
