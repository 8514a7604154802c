package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaylabs/sway/internal/activity"
	"github.com/swaylabs/sway/internal/auth"
	authdomain "github.com/swaylabs/sway/internal/auth/domain"
	authoauth "github.com/swaylabs/sway/internal/auth/oauth"
	"github.com/swaylabs/sway/internal/auth/token"
	"github.com/swaylabs/sway/internal/checkout"
	checkoutdomain "github.com/swaylabs/sway/internal/checkout/domain"
	"github.com/swaylabs/sway/internal/config"
	"github.com/swaylabs/sway/internal/conversation"
	"github.com/swaylabs/sway/internal/dashboard"
	dashboarddomain "github.com/swaylabs/sway/internal/dashboard/domain"
	"github.com/swaylabs/sway/internal/notification"
	"github.com/swaylabs/sway/internal/observability"
	obsmiddleware "github.com/swaylabs/sway/internal/observability/logger"
	obsmetrics "github.com/swaylabs/sway/internal/observability/metrics"
	obstracing "github.com/swaylabs/sway/internal/observability/tracing"
	"github.com/swaylabs/sway/internal/ratelimit"
	"github.com/swaylabs/sway/internal/subscription"
	subscriptiondomain "github.com/swaylabs/sway/internal/subscription/domain"
	"github.com/swaylabs/sway/internal/tenant"
	tenantdomain "github.com/swaylabs/sway/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	tenant.Module,
	auth.Module,
	activity.Module,
	notification.Module,
	subscription.Module,
	checkout.Module,
	conversation.Module,
	dashboard.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	genID        *snowflake.Node
	tokens       *token.Service
	oauthSim     *authoauth.Simulator
	tenantSvc    tenantdomain.Service
	authSvc      authdomain.Service
	checkoutSvc  checkoutdomain.Service
	subSvc       subscriptiondomain.Service
	dashboardSvc dashboarddomain.Service
	loginLimiter *ratelimit.LoginLimiter
	obsMetrics   *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	GenID        *snowflake.Node
	Tokens       *token.Service
	OAuthSim     *authoauth.Simulator
	TenantSvc    tenantdomain.Service
	AuthSvc      authdomain.Service
	CheckoutSvc  checkoutdomain.Service
	SubSvc       subscriptiondomain.Service
	DashboardSvc dashboarddomain.Service
	LoginLimiter *ratelimit.LoginLimiter
	ObsMetrics   *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("http.server"),
		genID:        p.GenID,
		tokens:       p.Tokens,
		oauthSim:     p.OAuthSim,
		tenantSvc:    p.TenantSvc,
		authSvc:      p.AuthSvc,
		checkoutSvc:  p.CheckoutSvc,
		subSvc:       p.SubSvc,
		dashboardSvc: p.DashboardSvc,
		loginLimiter: p.LoginLimiter,
		obsMetrics:   p.ObsMetrics,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.TenantContext())

	api.POST("/companies", s.CreateCompany)

	auth := api.Group("/auth", s.RequireTenant())
	{
		auth.POST("/register", s.LoginRateLimit(), s.Register)
		auth.POST("/login", s.LoginRateLimit(), s.Login)
		auth.GET("/me", s.AuthRequired(), s.Me)
		auth.PUT("/profile", s.AuthRequired(), s.UpdateProfile)
		auth.POST("/change-password", s.AuthRequired(), s.ChangePassword)
		auth.POST("/forgot-password", s.LoginRateLimit(), s.ForgotPassword)
		auth.POST("/reset-password", s.LoginRateLimit(), s.ResetPassword)

		auth.GET("/:provider", s.OAuthAuthorize)
		auth.GET("/:provider/callback", s.OAuthCallback)
	}

	co := api.Group("/checkout", s.RequireTenant())
	{
		co.GET("/plan/:planName", s.GetPlan)
		co.POST("/order", s.AuthRequired(), s.CreateOrder)
		co.POST("/payment/confirm", s.ConfirmPayment)
		co.GET("/order/:orderId", s.AuthRequired(), s.GetOrder)
	}

	api.GET("/home", s.RequireTenant(), s.AuthRequired(), s.GetHome)
	api.GET("/subscription", s.RequireTenant(), s.AuthRequired(), s.GetSubscription)
}
