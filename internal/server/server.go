package server

import (
	"context"
	"net/http"
	"time"

	"github.com/jobpopapp/backend/internal/auth"
	"github.com/jobpopapp/backend/internal/billing"
	"github.com/jobpopapp/backend/internal/category"
	"github.com/jobpopapp/backend/internal/company"
	"github.com/jobpopapp/backend/internal/config"
	"github.com/jobpopapp/backend/internal/job"
	"github.com/jobpopapp/backend/internal/pesapal"
	"github.com/jobpopapp/backend/internal/sms"
	"github.com/jobpopapp/backend/internal/subscription"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, smsService *sms.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RequestLoggingMiddleware())

	gateway := pesapal.NewClient(cfg.PesapalBaseURL, cfg.PesapalConsumerKey, cfg.PesapalConsumerSecret)

	subRepo := subscription.NewRepository(db)
	billingRepo := billing.NewRepository(db)
	notifier := sms.NewActivationNotifier(billingRepo, smsService)
	reconciler := subscription.NewReconciler(subRepo, gateway, notifier)

	companyRepo := company.NewRepository(db)
	companyService := company.NewService(companyRepo, reconciler, cfg.JWTSecret)
	companyHandler := company.NewHandler(companyService)

	subHandler := subscription.NewHandler(db, gateway, reconciler, cfg)
	billingHandler := billing.NewHandler(db)
	jobHandler := job.NewHandler(db)
	categoryHandler := category.NewHandler(db)
	smsHandler := sms.NewHandler(smsService)

	entitlementGate := subscription.NewGate(subRepo)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	verifiedMiddleware := company.RequireVerified(companyRepo)
	subscribedMiddleware := subscription.RequireActiveSubscription(entitlementGate)

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/register", RateLimitMiddleware(1, 5), companyHandler.Register)
		authGroup.POST("/login", RateLimitMiddleware(2, 10), companyHandler.Login)
		authGroup.POST("/refresh", companyHandler.RefreshToken)
		authGroup.GET("/profile", authMiddleware, companyHandler.GetProfile)
		authGroup.PUT("/profile", authMiddleware, companyHandler.UpdateProfile)
	}

	subGroup := router.Group("/api/subscription")
	{
		subGroup.GET("/plans", subHandler.ListPlans)
		subGroup.GET("/plans/:id", subHandler.GetPlan)
		subGroup.POST("/initiate", authMiddleware, subHandler.Initiate)
		subGroup.POST("/ipn", subHandler.HandleIPN)
		subGroup.GET("/callback", subHandler.HandleCallback)
		subGroup.GET("/verify-payment", subHandler.VerifyPayment)
		subGroup.GET("/status", authMiddleware, subHandler.GetStatus)
	}

	router.POST("/api/pesapal/register-ipn", subHandler.RegisterIPN)

	billingGroup := router.Group("/api/billing", authMiddleware)
	{
		billingGroup.GET("/address", billingHandler.Get)
		billingGroup.PUT("/address", billingHandler.Upsert)
		billingGroup.DELETE("/address", billingHandler.Delete)
	}

	jobGroup := router.Group("/api/jobs")
	{
		jobGroup.GET("", jobHandler.ListPublic)
		jobGroup.GET("/my", authMiddleware, verifiedMiddleware, jobHandler.ListMine)
		jobGroup.GET("/:id", authMiddleware, verifiedMiddleware, jobHandler.Get)
		jobGroup.POST("", authMiddleware, verifiedMiddleware, subscribedMiddleware, jobHandler.Create)
		jobGroup.PUT("/:id", authMiddleware, verifiedMiddleware, subscribedMiddleware, jobHandler.Update)
		jobGroup.DELETE("/:id", authMiddleware, verifiedMiddleware, subscribedMiddleware, jobHandler.Delete)
	}

	categoryGroup := router.Group("/api/categories")
	{
		categoryGroup.GET("", categoryHandler.List)
		categoryGroup.POST("", authMiddleware, categoryHandler.Create)
		categoryGroup.PUT("/:id", authMiddleware, categoryHandler.Update)
		categoryGroup.DELETE("/:id", authMiddleware, categoryHandler.Delete)
	}

	router.POST("/api/sms/send", authMiddleware, smsHandler.Send)

	adminHandler := company.NewAdminHandler(companyRepo)
	adminGroup := router.Group("/api/admin", authMiddleware)
	{
		adminGroup.GET("/companies", adminHandler.ListCompanies)
		adminGroup.GET("/companies/:id", adminHandler.GetCompany)
		adminGroup.PUT("/companies/:id/verify", adminHandler.SetVerification)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:         ":" + port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
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
