package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MIKU-7437/astrawood/config"
	"github.com/MIKU-7437/astrawood/internal/api/admin"
	"github.com/MIKU-7437/astrawood/internal/api/store"
	"github.com/MIKU-7437/astrawood/internal/api/user"
	apperrors "github.com/MIKU-7437/astrawood/internal/errors"
	"github.com/MIKU-7437/astrawood/internal/middleware"
	"github.com/MIKU-7437/astrawood/internal/repository/mysql"
	"github.com/MIKU-7437/astrawood/internal/service"
	"github.com/MIKU-7437/astrawood/internal/storage"
	"github.com/MIKU-7437/astrawood/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	// 测试数据库连接
	if err = db.Ping(); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 应用数据库迁移
	if err := applyMigrations(); err != nil {
		util.Logger.Fatal("应用迁移失败", zap.Error(err))
	}

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("phone", util.ValidatePhone)
	}

	// 初始化文件存储
	fileStorage, err := storage.New(config.AppConfig)
	if err != nil {
		util.Logger.Fatal("初始化文件存储失败", zap.Error(err))
	}

	// 初始化存储库、服务和处理器
	userRepo := mysql.NewUserRepository(db)
	emailService := service.NewEmailService()
	userService := service.NewUserService(userRepo, emailService)
	authHandler := user.NewAuthHandler(userService)
	profileHandler := user.NewProfileHandler(userService, fileStorage)
	userHandler := user.NewUserHandler(userService)

	storeRepo := mysql.NewStoreRepository(db)
	storeService := service.NewStoreService(storeRepo)
	storeHandler := store.NewStoreHandler(storeService)
	adminHandler := admin.NewAdminHandler(storeService)

	// 初始化错误分析器
	errorAnalytics := apperrors.NewErrorAnalytics()

	// 设置 Gin 路由
	r := gin.New()
	r.Use(gin.Logger())

	// 添加中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorAnalytics))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	r.Use(cors.New(corsConfig))

	// 配置静态文件服务
	r.Static("/uploads", config.AppConfig.LocalStoragePath)

	// 定义 API 路由
	api := r.Group("/api")
	{
		// 注册与验证
		api.POST("/register", authHandler.Register)
		api.POST("/register/resend", authHandler.ResendVerification)
		api.GET("/verify-email", authHandler.VerifyEmail)
		api.POST("/login", authHandler.Login)

		// 商品目录（只读）
		api.GET("/categories", storeHandler.ListCategories)
		api.GET("/categories/:slug/products", storeHandler.ListCategoryProducts)
		api.GET("/products/:slug", storeHandler.GetProduct)

		// 所有用户的公开资料
		api.GET("/users", userHandler.ListUsers)

		// 需要认证的路由
		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			authorized.GET("/me", profileHandler.GetProfile)
			authorized.PUT("/me", profileHandler.UpdateProfile)
			authorized.DELETE("/me", profileHandler.DeleteAccount)
			authorized.POST("/me/photo", profileHandler.UploadPhoto)
			authorized.PUT("/change-password", profileHandler.ChangePassword)
		}

		// 后台管理路由组
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(), middleware.StaffMiddleware(userService))
		{
			adminRoutes.POST("/categories", adminHandler.CreateCategory)
			adminRoutes.PUT("/categories/:id", adminHandler.UpdateCategory)
			adminRoutes.DELETE("/categories/:id", adminHandler.DeleteCategory)
			adminRoutes.POST("/products", adminHandler.CreateProduct)
			adminRoutes.PUT("/products/:id", adminHandler.UpdateProduct)
			adminRoutes.DELETE("/products/:id", adminHandler.DeleteProduct)
		}
	}

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// applyMigrations 在启动时应用全部待执行的迁移
func applyMigrations() error {
	databaseURL := fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	m, err := migrate.New(config.AppConfig.MigrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("创建迁移器失败: %w", err)
	}

	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("执行迁移失败: %w", err)
	}
	if err == migrate.ErrNoChange {
		util.Logger.Info("数据库结构已是最新")
	} else {
		util.Logger.Info("数据库迁移完成")
	}
	return nil
}
