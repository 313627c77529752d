package trade

import "context"

// ImportReplacer applies one file's replacement across every record table the
// file feeds, in a single transaction. Formats that mix sales and returns in
// one file commit to both tables or to neither.
type ImportReplacer interface {
	ReplaceForScope(ctx context.Context, scope ImportScope, tenantKey string, sales []SaleRecord, returns []ReturnRecord, kinds []RecordKind) error
}
