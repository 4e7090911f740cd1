package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"city-pet-go/internal/config"
	"city-pet-go/internal/handler"
	"city-pet-go/internal/middleware"
	"city-pet-go/internal/model"
	"city-pet-go/internal/pipeline"
	"city-pet-go/internal/repository"
	"city-pet-go/internal/service"
	"city-pet-go/pkg/database"
	"city-pet-go/pkg/es"
	"city-pet-go/pkg/kafka"
	"city-pet-go/pkg/llm"
	"city-pet-go/pkg/log"
	"city-pet-go/pkg/storage"
	"city-pet-go/pkg/token"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置与日志
	config.Init("./configs/config.yaml")
	log.Init(config.Conf.Log.Level, config.Conf.Log.Format, config.Conf.Log.OutputPath)
	defer log.Sync()

	// 2. 初始化基础设施
	database.InitMySQL(config.Conf.Database.MySQL.DSN)
	database.AutoMigrate(&model.FAQ{}, &model.ChatLog{}, &model.User{})
	database.InitRedis(config.Conf.Database.Redis.Addr, config.Conf.Database.Redis.Password, config.Conf.Database.Redis.DB)
	storage.InitMinIO(config.Conf.MinIO)

	// Elasticsearch 不可用时降级运行：FAQ 第四层检索与分析索引将被跳过
	if err := es.InitES(config.Conf.Elasticsearch); err != nil {
		log.Warnf("Elasticsearch 初始化失败，将以降级模式运行: %v", err)
	}

	// 3. 启动 Kafka 分析管道
	kafka.InitProducer(config.Conf.Kafka)
	processor := pipeline.NewProcessor(config.Conf.Elasticsearch, database.RDB)
	go kafka.StartConsumer(config.Conf.Kafka, processor)

	// 4. 依赖注入
	jwtManager := token.NewJWTManager(
		config.Conf.JWT.Secret,
		config.Conf.JWT.AccessTokenExpireHours,
		config.Conf.JWT.RefreshTokenExpireDays,
	)

	faqRepo := repository.NewFAQRepository(database.DB, es.ESClient, config.Conf.Elasticsearch.FAQIndex)
	chatLogRepo := repository.NewChatLogRepository(database.DB)
	sessionRepo := repository.NewSessionRepository(database.RDB)
	userRepo := repository.NewUserRepository(database.DB)

	triage := service.NewTriageClassifier(config.Conf.Triage)
	matcher := service.NewFAQMatcher(faqRepo)
	fallback := service.NewFallbackResponder(config.Conf.Hospital)
	llmClient := llm.NewClient(config.Conf.LLM)

	chatbotService := service.NewChatbotService(
		triage, matcher, fallback, llmClient,
		chatLogRepo, sessionRepo,
		config.Conf.Hospital,
		kafka.ProduceChatEvent,
	)
	faqService := service.NewFAQService(faqRepo, config.Conf.Elasticsearch.FAQIndex)
	userService := service.NewUserService(userRepo, jwtManager)
	statsService := service.NewStatsService(chatLogRepo, database.RDB, config.Conf.MinIO)

	chatbotHandler := handler.NewChatbotHandler(chatbotService, faqService)
	chatWSHandler := handler.NewChatWSHandler(chatbotService)
	faqHandler := handler.NewFAQHandler(faqService)
	adminHandler := handler.NewAdminHandler(statsService)
	userHandler := handler.NewUserHandler(userService)

	// 5. 注册路由
	gin.SetMode(config.Conf.Server.Mode)
	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())

	api := router.Group("/api/v1")
	{
		// 聊天挂件的公开接口
		chatbot := api.Group("/chatbot")
		{
			chatbot.POST("/message", chatbotHandler.ProcessMessage)
			chatbot.POST("/feedback", chatbotHandler.SubmitFeedback)
			chatbot.GET("/faqs", chatbotHandler.ListFAQs)
			chatbot.GET("/history/:sessionId", chatbotHandler.GetHistory)
			chatbot.GET("/ws/:sessionId", chatWSHandler.Handle)
		}

		// 员工账号
		users := api.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/refresh", userHandler.RefreshToken)
			users.GET("/me", middleware.AuthMiddleware(jwtManager, userService), userHandler.GetProfile)
		}

		// 管理员接口（需管理员角色）
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtManager, userService), middleware.AdminAuthMiddleware())
		{
			admin.GET("/faqs", faqHandler.ListAll)
			admin.POST("/faqs", faqHandler.Create)
			admin.PUT("/faqs/:id", faqHandler.Update)
			admin.DELETE("/faqs/:id", faqHandler.Delete)
			admin.GET("/chatlogs", adminHandler.ListChatLogs)
			admin.GET("/stats", adminHandler.GetStats)
			admin.POST("/chatlogs/export", adminHandler.ExportChatLogs)
		}
	}

	// 6. 启动服务器并支持优雅停机
	srv := &http.Server{
		Addr:    ":" + config.Conf.Server.Port,
		Handler: router,
	}

	go func() {
		log.Infof("服务器启动，监听端口 %s", config.Conf.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("收到停机信号，正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务器强制关闭: %v", err)
	}

	log.Info("服务器已退出")
}
