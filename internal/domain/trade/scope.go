package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/gstledger/backend/internal/domain/shared"
)

// ImportScope is the declared scope of one import: which marketplace the file
// came from, which statutory period it covers, and the source-declared
// supplier identifier when the format carries one. Re-running an import for
// the same scope replaces the prior records in that exact scope.
type ImportScope struct {
	Marketplace   Marketplace `json:"marketplace" binding:"required"`
	FinancialYear int         `json:"financial_year" binding:"required,min=2017,max=2100"`
	Month         int         `json:"month" binding:"required,min=1,max=12"`
	SupplierID    string      `json:"supplier_id"`
}

// Validate checks the scope fields
func (s ImportScope) Validate() error {
	if _, err := ParseMarketplace(string(s.Marketplace)); err != nil {
		return err
	}
	if s.FinancialYear < 2017 || s.FinancialYear > 2100 {
		return shared.NewDomainError("INVALID_SCOPE", "Financial year out of range")
	}
	if s.Month < 1 || s.Month > 12 {
		return shared.NewDomainError("INVALID_SCOPE", "Month must be between 1 and 12")
	}
	return nil
}

// PeriodBounds returns the calendar bounds [start, end) of the scope's month.
// The Indian financial year runs April through March: months 4-12 fall in the
// year before the financial-year label, months 1-3 in the labelled year.
func (s ImportScope) PeriodBounds() (time.Time, time.Time) {
	year := s.FinancialYear
	if s.Month > 3 {
		year = s.FinancialYear - 1
	}
	start := time.Date(year, time.Month(s.Month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// String renders the scope for log and report output
func (s ImportScope) String() string {
	parts := []string{s.Marketplace.String(), fmt.Sprintf("FY%d", s.FinancialYear), fmt.Sprintf("M%02d", s.Month)}
	if s.SupplierID != "" {
		parts = append(parts, "supplier="+s.SupplierID)
	}
	return strings.Join(parts, " ")
}

// Period identifies a statutory reporting period for aggregation queries
type Period struct {
	FinancialYear int
	Month         int
}

// Validate checks the period fields
func (p Period) Validate() error {
	if p.FinancialYear < 2017 || p.FinancialYear > 2100 {
		return shared.NewDomainError("INVALID_PERIOD", "Financial year out of range")
	}
	if p.Month < 1 || p.Month > 12 {
		return shared.NewDomainError("INVALID_PERIOD", "Month must be between 1 and 12")
	}
	return nil
}
