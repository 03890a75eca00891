package main

import (
	"context"
	"log"
	"time"

	"hrms/internal/config"
	"hrms/internal/database"
	"hrms/internal/handler"
	"hrms/internal/metrics"
	"hrms/internal/middleware"
	"hrms/internal/rbac"
	"hrms/internal/repository"
	"hrms/internal/service"
	"hrms/internal/token"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           HRMS API
// @version         1.0
// @description     HR management API: authentication, RBAC, employees, leave and attendance.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, err := database.NewConnection(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	// Shared infrastructure
	tokens := token.NewService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	permCache := rbac.NewCache(roleRepo, rbac.DefaultTTL)
	authenticator := middleware.NewAuthenticator(tokens, userRepo, permCache)
	cookies := middleware.NewCookieWriter(
		cfg.IsProduction(),
		int(cfg.AccessTokenTTL.Seconds()),
		int(cfg.RefreshTokenTTL.Seconds()),
	)
	loginLimiter := middleware.NewRateLimiter(1, 10)

	// Services
	authService := service.NewAuthService(userRepo, roleRepo, employeeRepo, auditRepo, tokens, txManager, cfg.BcryptCost)
	roleService := service.NewRoleService(roleRepo, permCache, auditRepo)
	userService := service.NewUserService(userRepo, roleRepo, auditRepo, txManager)
	employeeService := service.NewEmployeeService(employeeRepo, departmentRepo, userRepo)
	departmentService := service.NewDepartmentService(departmentRepo)
	leaveService := service.NewLeaveService(leaveRepo, auditRepo, txManager)
	attendanceService := service.NewAttendanceService(attendanceRepo)
	auditService := service.NewAuditService(auditRepo)

	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := roleService.SeedDefaults(seedCtx); err != nil {
		cancel()
		log.Fatalf("Failed to seed roles and permissions: %v", err)
	}
	cancel()

	// Handlers
	authHandler := handler.NewAuthHandler(authService, authenticator, cookies, loginLimiter.Limit())
	roleHandler := handler.NewRoleHandler(roleService, authenticator)
	userHandler := handler.NewUserHandler(userService, authenticator)
	employeeHandler := handler.NewEmployeeHandler(employeeService, authenticator)
	departmentHandler := handler.NewDepartmentHandler(departmentService, authenticator)
	leaveHandler := handler.NewLeaveHandler(leaveService, authenticator)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService, authenticator)
	auditHandler := handler.NewAuditHandler(auditService, authenticator)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.ErrorHandler(!cfg.IsProduction()))

	metrics.Init()
	router.Use(metrics.Instrument())
	router.GET("/metrics", metrics.Handler())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	authHandler.RegisterRoutes(router.Group(""))

	api := router.Group("/api")
	roleHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	employeeHandler.RegisterRoutes(api)
	departmentHandler.RegisterRoutes(api)
	leaveHandler.RegisterRoutes(api)
	attendanceHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)

	log.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
