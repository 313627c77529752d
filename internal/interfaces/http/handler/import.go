package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gstledger/backend/internal/application/importapp"
	"github.com/gstledger/backend/internal/domain/tenant"
	"github.com/gstledger/backend/internal/domain/trade"
)

// ImportHandler exposes the ingestion pipeline over multipart uploads
type ImportHandler struct {
	BaseHandler
	sales    *importapp.SalesImportService
	invoices *importapp.InvoiceImportService
	mappings tenant.SellerMappingRepository
}

// NewImportHandler creates an import handler
func NewImportHandler(sales *importapp.SalesImportService, invoices *importapp.InvoiceImportService, mappings tenant.SellerMappingRepository) *ImportHandler {
	return &ImportHandler{sales: sales, invoices: invoices, mappings: mappings}
}

// importForm is the multipart form accompanying an uploaded export file
type importForm struct {
	Marketplace   string `form:"marketplace" binding:"required"`
	FinancialYear int    `form:"financial_year" binding:"required,min=2017,max=2100"`
	Month         int    `form:"month" binding:"required,min=1,max=12"`
	SupplierID    string `form:"supplier_id"`
	Kind          string `form:"kind"`
	ConfirmTenant string `form:"confirm_tenant" binding:"omitempty,tenantkey"`
}

func (f *importForm) scope() (trade.ImportScope, error) {
	marketplace, err := trade.ParseMarketplace(f.Marketplace)
	if err != nil {
		return trade.ImportScope{}, err
	}
	return trade.ImportScope{
		Marketplace:   marketplace,
		FinancialYear: f.FinancialYear,
		Month:         f.Month,
		SupplierID:    f.SupplierID,
	}, nil
}

func (f *importForm) options() (importapp.ImportOptions, error) {
	var opts importapp.ImportOptions
	if f.ConfirmTenant != "" {
		key, err := tenant.ParseKey(f.ConfirmTenant)
		if err != nil {
			return opts, err
		}
		opts.ConfirmedTenant = key
	}
	return opts, nil
}

// ImportSales handles POST /imports/sales
func (h *ImportHandler) ImportSales(c *gin.Context) {
	var form importForm
	if err := c.ShouldBind(&form); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	scope, err := form.scope()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	opts, err := form.options()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	kind := trade.KindSale
	if form.Kind != "" {
		if kind, err = trade.ParseRecordKind(form.Kind); err != nil {
			h.HandleError(c, err)
			return
		}
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "unable to read uploaded file")
		return
	}
	defer file.Close()

	importReport, err := h.sales.Import(c.Request.Context(), file, scope, kind, opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, importReport)
}

// ImportInvoices handles POST /imports/invoices
func (h *ImportHandler) ImportInvoices(c *gin.Context) {
	var form importForm
	if err := c.ShouldBind(&form); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	scope, err := form.scope()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	opts, err := form.options()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "unable to read uploaded file")
		return
	}
	defer file.Close()

	importReport, err := h.invoices.Import(c.Request.Context(), file, scope, opts)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, importReport)
}

// ListMappings handles GET /mappings
func (h *ImportHandler) ListMappings(c *gin.Context) {
	mappings, err := h.mappings.FindAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, mappings)
}
