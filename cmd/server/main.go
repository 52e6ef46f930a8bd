package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/leon37/ReceiptLedger/internal/api"
	"github.com/leon37/ReceiptLedger/internal/api/controller"
	"github.com/leon37/ReceiptLedger/internal/config"
	"github.com/leon37/ReceiptLedger/internal/filestore"
	"github.com/leon37/ReceiptLedger/internal/infrastructure/database"
	"github.com/leon37/ReceiptLedger/internal/infrastructure/docai"
	"github.com/leon37/ReceiptLedger/internal/infrastructure/mailer"
	"github.com/leon37/ReceiptLedger/internal/repository"
	"github.com/leon37/ReceiptLedger/internal/service"
)

// @title           ReceiptLedger API
// @version         1.0
// @description     票据账本：上传小票、自动提取行项目、分类打标、好友分摊
// @host            localhost:8080
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 请在输入框中输入 "Bearer <token>" (注意 Bearer 和 token 之间有空格)

func main() {
	// 1. 初始化 Logger
	// JSONHandler 方便日志采集侧解析，AddSource 显示文件名和行号
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug, // 开发阶段设为 Debug，生产环境改为 Info
	}))
	slog.SetDefault(logger)

	slog.Info("ReceiptLedger 系统启动中...")

	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}

	// 2. Infra Initialization
	db := database.NewMySQLConnection(conf.Database.DSN) // 这里会自动建表

	store, err := filestore.NewLocalStore(conf.Server.UploadDir)
	if err != nil {
		log.Fatalf("Failed to init file store: %v", err)
	}

	var mail mailer.Mailer
	if conf.Server.OfflineMode || conf.SMTP.Host == "" {
		mail = mailer.NoopMailer{}
	} else {
		mail = mailer.NewSMTPMailer(conf.SMTP.Host, conf.SMTP.Port, conf.SMTP.Username, conf.SMTP.Password, conf.SMTP.From)
	}

	analyzer := docai.NewOpenAIClient(conf.DocAI.APIKey, conf.DocAI.BaseURL, conf.DocAI.ExtractModel, conf.DocAI.ClassifyModel)

	if conf.Server.Port != ":8080" { // 简单的判断，生产环境建议用配置字段
		gin.SetMode(gin.ReleaseMode)
	}

	// 3. Layer Wiring (依赖注入)
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepo(db)
	receiptRepo := repository.NewReceiptRepo(db)
	itemRepo := repository.NewItemRepo(db)
	ruleRepo := repository.NewRuleRepository(db)
	splitRepo := repository.NewSplitRepository(db)
	friendRepo := repository.NewFriendRepository(db)

	categorySvc := service.NewCategoryService(categoryRepo)
	friendSvc := service.NewFriendService(friendRepo, userRepo, mail)
	authSvc := service.NewAuthService(userRepo, categorySvc, friendSvc, mail)
	receiptSvc := service.NewReceiptService(receiptRepo, itemRepo, ruleRepo, categoryRepo, analyzer, store, conf.Server.OfflineMode)
	itemSvc := service.NewItemService(itemRepo, receiptRepo, categoryRepo)
	splitSvc := service.NewSplitService(splitRepo, userRepo, itemRepo, receiptRepo)
	ruleSvc := service.NewRuleService(ruleRepo, categoryRepo)

	// 4. Server Start
	r := gin.Default()
	api.RegisterRoutes(r, api.Controllers{
		Auth:     controller.NewAuthController(authSvc),
		Category: controller.NewCategoryController(categorySvc),
		Friend:   controller.NewFriendController(friendSvc, userRepo),
		Receipt:  controller.NewReceiptController(receiptSvc),
		Item:     controller.NewItemController(itemSvc),
		Split:    controller.NewSplitController(splitSvc),
		Rule:     controller.NewRuleController(ruleSvc),
	})

	slog.Info("ReceiptLedger Web Server 启动中", "port", conf.Server.Port, "offline", conf.Server.OfflineMode)
	if err := r.Run(conf.Server.Port); err != nil {
		slog.Error("服务器启动失败", "error", err)
	}
}
