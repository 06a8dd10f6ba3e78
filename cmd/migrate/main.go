package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/worker-roster/backend/internal/repository"
)

func main() {
	var cmd string
	var steps int

	flag.StringVar(&cmd, "cmd", "up", "要执行的操作 (up, down, version)")
	flag.IntVar(&steps, "steps", 0, "down 时回滚的步数，0 表示全部回滚")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", "error", err)
		os.Exit(1)
	}

	m, err := repository.NewMigrator(cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建迁移实例", "error", err)
		os.Exit(1)
	}
	defer m.Close()

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	case "version":
	default:
		logger.Error("指定的操作非法", "cmd", cmd)
		os.Exit(1)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("执行迁移失败", "cmd", cmd, "error", err)
		os.Exit(1)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Info("数据库尚未执行任何迁移")
	case err != nil:
		logger.Error("无法获取迁移版本", "error", err)
		os.Exit(1)
	default:
		logger.Info("当前迁移版本", "version", version, "dirty", dirty)
	}
}
