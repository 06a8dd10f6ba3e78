package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/repository"
	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/seed"
	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/service"
)

func main() {
	var op int
	var n int
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机工人及今天的班次, 2: 从 CSV 导入名册)")
	flag.IntVar(&n, "n", 5, "要插入的工人数量")
	flag.StringVar(&file, "file", "", "名册 CSV 文件路径，表头为 name,shift_date,shift_start")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", "error", err)
		os.Exit(1)
	}

	// 创建数据库连接池
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	dbpool, err := repository.NewPool(ctx, cfg)
	if err != nil {
		logger.Error("无法连接到数据库", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()

	repo := repository.NewRepository(cfg, dbpool)
	directory := service.NewDirectory(repo)
	ledger := service.NewLedger(repo, nil, cfg.Roster.FanOut)

	// 执行操作
	switch op {
	case 0:
		logger.Error("未指定操作")
	case 1:
		res, err := seed.SeedRandomWorkers(context.Background(), directory, ledger, n)
		if err != nil {
			logger.Error("插入随机工人失败", "error", err)
			return
		}
		logger.Info("插入随机工人成功", "workers", res.Workers, "shifts", res.Shifts, "skipped", res.Skipped)
	case 2:
		if file == "" {
			logger.Error("请通过 -file 指定名册文件")
			return
		}
		f, err := os.Open(file)
		if err != nil {
			logger.Error("打开文件失败", "error", err)
			return
		}
		defer f.Close()

		res, err := seed.ImportRoster(context.Background(), directory, ledger, f)
		if err != nil {
			logger.Error("导入名册失败", "error", err)
			return
		}
		logger.Info("导入名册成功", "workers", res.Workers, "shifts", res.Shifts, "skipped", res.Skipped)
	default:
		logger.Error("指定的操作非法")
	}
}
