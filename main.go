// @title SkillPath 后端 API
// @version 1.0
// @description 课程与实习的学习进度、测验、项目与证书服务。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"skillpath_backend/internal/app"
	"skillpath_backend/internal/config"
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/util"
	"skillpath_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	importPath := flag.String("import", "", "导入 YAML 内容文件或目录，完成后退出")
	devToken := flag.String("dev-token", "", "为本地调试签发令牌，格式 userID[:role]，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *devToken != "" {
		userID, role, _ := strings.Cut(*devToken, ":")
		if role == "" {
			role = string(model.Student)
		}
		token, err := util.GenerateJWT(userID, model.UserRole(role), cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpireTime)
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}
		fmt.Println(token)
		return
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly || *importPath != ""
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg, *configDir)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		logger.Log.Info("数据库迁移完成，退出程序")
		return
	}

	if *importPath != "" {
		results, err := application.Import(context.Background(), *importPath)
		if err != nil {
			logger.Log.Error("import failed", zap.String("path", *importPath), zap.Error(err))
			os.Exit(1)
		}
		for _, r := range results {
			logger.Log.Info("imported",
				zap.String("kind", string(r.Kind)),
				zap.String("slug", r.Slug),
				zap.Uint("id", r.ID),
				zap.Int("units", r.Units),
				zap.Int("questions", r.Questions),
			)
		}
		return
	}

	application.Run()
}
