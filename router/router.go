package router

import (
	"time"

	"garage/api"
	"garage/config"
	_ "garage/docs"
	"garage/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		authHandler := api.NewAuthHandler(cfg)
		auth := v1.Group("/auth")
		{
			// 登录注册限流：每 IP 每分钟 10 次
			auth.POST("/register", middleware.RateLimit(10, time.Minute), authHandler.Register)
			auth.POST("/login", middleware.RateLimit(10, time.Minute), authHandler.Login)
		}

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			// 用户相关
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PATCH("/auth/profile", authHandler.UpdateProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			// 邮箱验证相关
			authorized.POST("/auth/send-code", middleware.RateLimit(5, time.Minute), authHandler.SendVerificationCode)
			authorized.POST("/auth/verify-code", authHandler.VerifyEmailCode)

			// 车辆相关
			carHandler := api.NewCarHandler()
			imageHandler := api.NewCarImageHandler()
			cars := authorized.Group("/cars")
			{
				cars.POST("", carHandler.Create)
				cars.GET("", carHandler.List)
				cars.GET("/:id", carHandler.Get)
				cars.PATCH("/:id", carHandler.Update)
				cars.DELETE("/:id", carHandler.Delete)

				// 图片
				cars.POST("/:id/images", imageHandler.Add)
				cars.DELETE("/:id/images/:imageId", imageHandler.Delete)

				// 改装
				groupHandler := api.NewTuningGroupHandler()
				partHandler := api.NewTuningPartHandler()
				overviewHandler := api.NewTuningOverviewHandler()
				exportHandler := api.NewExportHandler()
				tuning := cars.Group("/:id/tuning")
				{
					tuning.POST("/groups", groupHandler.Create)
					tuning.GET("/groups", groupHandler.List)
					tuning.GET("/groups/:groupId", groupHandler.Get)
					tuning.PATCH("/groups/:groupId", groupHandler.Update)
					tuning.DELETE("/groups/:groupId", groupHandler.Delete)
					tuning.GET("/groups/:groupId/parts", partHandler.ListByGroup)

					tuning.POST("/parts", partHandler.Create)
					tuning.GET("/parts", partHandler.List)
					tuning.GET("/parts/:partId", partHandler.Get)
					tuning.PATCH("/parts/:partId", partHandler.Update)
					tuning.DELETE("/parts/:partId", partHandler.Delete)
					tuning.POST("/parts/:partId/cycle-status", partHandler.CycleStatus)
					tuning.POST("/parts/:partId/duplicate", partHandler.Duplicate)

					tuning.GET("/overview", overviewHandler.Overview)
					tuning.GET("/statistics", overviewHandler.Statistics)

					tuning.GET("/export/csv", exportHandler.ExportCSV)
					tuning.GET("/export/json", exportHandler.ExportJSON)
					tuning.GET("/export/excel", exportHandler.ExportExcel)
				}
			}

			// 预算计算器文档
			budgetHandler := api.NewBudgetHandler()
			authorized.GET("/budget", budgetHandler.Get)
			authorized.PUT("/budget", budgetHandler.Put)
			authorized.DELETE("/budget", budgetHandler.Delete)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
