package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	clientdomain "github.com/smallbiznis/facturo/internal/client/domain"
	"github.com/smallbiznis/facturo/internal/config"
	documentdomain "github.com/smallbiznis/facturo/internal/document/domain"
	invoicedomain "github.com/smallbiznis/facturo/internal/invoice/domain"
	obstracing "github.com/smallbiznis/facturo/internal/observability/tracing"
	tenantdomain "github.com/smallbiznis/facturo/internal/tenant/domain"
)

var Module = fx.Module("server",
	fx.Provide(NewHTTPMetrics),
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(MetricsMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
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
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	tenantSvc   tenantdomain.Service
	clientSvc   clientdomain.Service
	invoiceSvc  invoicedomain.Service
	documentSvc documentdomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	TenantSvc   tenantdomain.Service
	ClientSvc   clientdomain.Service
	InvoiceSvc  invoicedomain.Service
	DocumentSvc documentdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("server"),
		tenantSvc:   p.TenantSvc,
		clientSvc:   p.ClientSvc,
		invoiceSvc:  p.InvoiceSvc,
		documentSvc: p.DocumentSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")

	// -------- Tenants --------
	v1.POST("/tenants", s.CreateTenant)
	v1.GET("/tenants/:slug", s.GetTenant)

	// -------- Invoices --------
	v1.POST("/invoices", s.IssueInvoice)

	// Tenant-scoped reads resolve the slug once and carry the tenant in
	// the request context.
	scoped := v1.Group("/tenants/:slug", s.TenantContext())
	{
		scoped.POST("/clients", s.CreateClient)
		scoped.GET("/clients", s.ListClients)
		scoped.GET("/invoices", s.ListInvoices)
		scoped.GET("/invoices/:number", s.GetInvoiceByNumber)
		scoped.GET("/invoices/:number/document", s.GetInvoiceDocument)
	}
}
