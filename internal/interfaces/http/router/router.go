package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gstledger/backend/internal/infrastructure/config"
	"github.com/gstledger/backend/internal/infrastructure/logger"
	"github.com/gstledger/backend/internal/interfaces/http/handler"
	"github.com/gstledger/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers the router wires up
type Handlers struct {
	Import *handler.ImportHandler
	Report *handler.ReportHandler
}

// New builds the gin engine with middleware and all application routes
func New(cfg *config.Config, log *zap.Logger, h Handlers) (*gin.Engine, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := handler.RegisterValidations(); err != nil {
		return nil, err
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.App.Name})
	})

	api := engine.Group("/api/v1")
	{
		imports := api.Group("/imports")
		{
			imports.POST("/sales", h.Import.ImportSales)
			imports.POST("/invoices", h.Import.ImportInvoices)
		}
		api.GET("/mappings", h.Import.ListMappings)

		reports := api.Group("/reports")
		{
			reports.GET("/rate-wise", h.Report.RateWiseSummary)
			reports.GET("/large-invoices", h.Report.LargeInvoices)
			reports.GET("/b2b", h.Report.B2BSummary)
			reports.GET("/credit-debit-notes", h.Report.CreditDebitNotes)
			reports.GET("/classification", h.Report.ClassificationSummary)
			reports.GET("/document-register", h.Report.DocumentRegister)
			reports.GET("/monthly-summary", h.Report.MonthlySummary)
			reports.GET("/profitability", h.Report.Profitability)
		}
	}

	return engine, nil
}
