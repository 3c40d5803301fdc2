package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fitstudio/coach-scheduler/backend/internal/config"
	"github.com/fitstudio/coach-scheduler/backend/internal/repository"
	"github.com/fitstudio/coach-scheduler/backend/internal/seed"
	"github.com/fitstudio/coach-scheduler/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var emailDomain string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机门店, 2: 插入随机教练, 3: 插入整套演示数据)")
	flag.IntVar(&n, "n", 0, "要插入的记录数量 (0 表示使用配置中的默认值)")
	flag.StringVar(&emailDomain, "email-domain", "example.com", "随机教练邮箱使用的域名")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			n = cfg.Seed.StoreCount
		}

		cnt := 0
		for i := 0; i < n; i++ {
			store := utils.GenerateRandomStore()
			if err := repo.CreateStore(store); err != nil {
				slog.Error("无法插入门店", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}

		slog.Info("插入门店成功", slog.Int("count", cnt))
	case 2:
		if n <= 0 {
			n = cfg.Seed.CoachCount
		}

		// 随机教练需要挂靠到已有的门店上
		stores, err := repo.GetAllStores()
		if err != nil {
			slog.Error("无法获取门店列表", slog.String("error", err.Error()))
			return
		}
		if len(stores) == 0 {
			slog.Error("数据库中没有门店，请先插入门店")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			coach := utils.GenerateRandomCoach(emailDomain)
			if err := repo.CreateCoach(coach); err != nil {
				slog.Error("无法插入教练", slog.String("error", err.Error()))
				continue
			}
			cnt++
		}

		slog.Info("插入教练成功", slog.Int("count", cnt), slog.String("提示", "教练尚未关联门店，可通过 API 设置"))
	case 3:
		storeCount := cfg.Seed.StoreCount
		coachCount := cfg.Seed.CoachCount
		if n > 0 {
			coachCount = n
		}

		seed.SeedDemoData(repo, storeCount, coachCount, strings.TrimSpace(emailDomain))
	default:
		slog.Error("指定的操作非法")
	}
}
