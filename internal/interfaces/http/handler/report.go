package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	appreport "github.com/gstledger/backend/internal/application/report"
	"github.com/gstledger/backend/internal/domain/tenant"
	"github.com/gstledger/backend/internal/domain/trade"
)

// ReportHandler exposes the statutory summary tables
type ReportHandler struct {
	BaseHandler
	aggregator *appreport.AggregationService
}

// NewReportHandler creates a report handler
func NewReportHandler(aggregator *appreport.AggregationService) *ReportHandler {
	return &ReportHandler{aggregator: aggregator}
}

// reportQuery identifies the tenant and period a table is built for
type reportQuery struct {
	TenantKey     string `form:"tenant_key" binding:"required,tenantkey"`
	FinancialYear int    `form:"financial_year" binding:"required,min=2017,max=2100"`
	Month         int    `form:"month" binding:"required,min=1,max=12"`
}

func (h *ReportHandler) bindQuery(c *gin.Context) (tenant.Key, trade.Period, bool) {
	var q reportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return "", trade.Period{}, false
	}
	key, err := tenant.ParseKey(q.TenantKey)
	if err != nil {
		h.HandleError(c, err)
		return "", trade.Period{}, false
	}
	return key, trade.Period{FinancialYear: q.FinancialYear, Month: q.Month}, true
}

func (h *ReportHandler) serve(c *gin.Context, build func(context.Context, tenant.Key, trade.Period) (any, error)) {
	key, period, ok := h.bindQuery(c)
	if !ok {
		return
	}
	data, err := build(c.Request.Context(), key, period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, data)
}

// RateWiseSummary handles GET /reports/rate-wise
func (h *ReportHandler) RateWiseSummary(c *gin.Context) {
	h.serve(c, func(ctx context.Context, key tenant.Key, period trade.Period) (any, error) {
		return h.aggregator.RateWiseSummary(ctx, key, period)
	})
}

// LargeInvoices handles GET /reports/large-invoices
func (h *ReportHandler) LargeInvoices(c *gin.Context) {
	h.serve(c, func(ctx context.Context, key tenant.Key, period trade.Period) (any, error) {
		return h.aggregator.LargeInvoices(ctx, key, period)
	})
}

// B2BSummary handles GET /reports/b2b
func (h *ReportHandler) B2BSummary(c *gin.Context) {
	h.serve(c, func(ctx context.Context, key tenant.Key, period trade.Period) (any, error) {
		return h.aggregator.B2BSummary(ctx, key, period)
	})
}

// CreditDebitNotes handles GET /reports/credit-debit-notes
func (h *ReportHandler) CreditDebitNotes(c *gin.Context) {
	h.serve(c, func(ctx context.Context, key tenant.Key, period trade.Period) (any, error) {
		return h.aggregator.CreditDebitNotes(ctx, key, period)
	})
}

// ClassificationSummary handles GET /reports/classification
func (h *ReportHandler) ClassificationSummary(c *gin.Context) {
	h.serve(c, func(ctx context.Context, key tenant.Key, period trade.Period) (any, error) {
		return h.aggregator.ClassificationSummary(ctx, key, period)
	})
}

// DocumentRegister handles GET /reports/document-register
func (h *ReportHandler) DocumentRegister(c *gin.Context) {
	h.serve(c, func(ctx context.Context, key tenant.Key, period trade.Period) (any, error) {
		return h.aggregator.DocumentRegister(ctx, key, period)
	})
}

// MonthlySummary handles GET /reports/monthly-summary
func (h *ReportHandler) MonthlySummary(c *gin.Context) {
	h.serve(c, func(ctx context.Context, key tenant.Key, period trade.Period) (any, error) {
		return h.aggregator.MonthlySummary(ctx, key, period)
	})
}

// Profitability handles GET /reports/profitability
func (h *ReportHandler) Profitability(c *gin.Context) {
	h.serve(c, func(ctx context.Context, key tenant.Key, period trade.Period) (any, error) {
		return h.aggregator.Profitability(ctx, key, period)
	})
}
