package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// CSVParser reads marketplace export files. Exports arrive with UTF-8 BOMs,
// inconsistent header capitalization and trailing blank columns, so headers
// are matched case-insensitively and rows are padded to the header width.
type CSVParser struct {
	delimiter  rune
	lazyQuotes bool
	headerMap  map[string]int
	headers    []string
	currentRow int
	totalRows  int
	reader     *csv.Reader
	bufReader  *bufio.Reader
}

// ParserOption is a functional option for CSVParser configuration
type ParserOption func(*CSVParser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *CSVParser) {
		p.delimiter = d
	}
}

// NewCSVParser creates a new CSV parser from a reader
func NewCSVParser(r io.Reader, opts ...ParserOption) (*CSVParser, error) {
	parser := &CSVParser{
		delimiter:  ',',
		lazyQuotes: true,
		headerMap:  make(map[string]int),
	}

	for _, opt := range opts {
		opt(parser)
	}

	parser.bufReader = bufio.NewReader(r)

	// Detect and strip UTF-8 BOM
	content, err := parser.bufReader.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		_, _ = parser.bufReader.Discard(3)
	}

	if err := validateUTF8(parser.bufReader); err != nil {
		return nil, err
	}

	parser.reader = csv.NewReader(parser.bufReader)
	parser.reader.Comma = parser.delimiter
	parser.reader.LazyQuotes = parser.lazyQuotes
	parser.reader.TrimLeadingSpace = true
	parser.reader.FieldsPerRecord = -1

	return parser, nil
}

// ParseFromBytes creates a parser from a byte slice
func ParseFromBytes(data []byte, opts ...ParserOption) (*CSVParser, error) {
	return NewCSVParser(bytes.NewReader(data), opts...)
}

func validateUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for encoding validation: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}
	return nil
}

// ParseHeader reads and parses the header row
func (p *CSVParser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		header := strings.TrimSpace(h)
		p.headers[i] = header
		p.headerMap[normalizeHeader(header)] = i
	}

	if len(p.headers) == 0 {
		return ErrMissingHeader
	}

	p.currentRow = 1 // Header is row 1

	return nil
}

// normalizeHeader folds case and inner whitespace so "Order ID", "order id"
// and "Order  Id" all address the same column
func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

// Headers returns the parsed header names as they appear in the file
func (p *CSVParser) Headers() []string {
	return p.headers
}

// HasHeader checks if a header exists, ignoring case
func (p *CSVParser) HasHeader(name string) bool {
	_, ok := p.headerMap[normalizeHeader(name)]
	return ok
}

// ValidateHeaders returns the required headers missing from the file
func (p *CSVParser) ValidateHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !p.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one parsed data row with its line number for error reporting
type Row struct {
	LineNumber int
	data       map[string]string
}

// Get returns the value for a column by header name, ignoring case
func (r *Row) Get(header string) string {
	return r.data[normalizeHeader(header)]
}

// GetAny returns the first non-empty value among the given header names.
// Marketplaces rename columns between export versions; callers list the
// known aliases.
func (r *Row) GetAny(headers ...string) string {
	for _, h := range headers {
		if v := r.Get(h); v != "" {
			return v
		}
	}
	return ""
}

// GetDecimal parses a column as a decimal amount. Empty cells and the
// spreadsheet artifacts "nan" and "-" read as zero.
func (r *Row) GetDecimal(header string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(r.Get(header))
	switch strings.ToLower(raw) {
	case "", "nan", "-", "na":
		return decimal.Zero, nil
	}
	raw = strings.ReplaceAll(raw, ",", "")
	return decimal.NewFromString(raw)
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04",
	"2-Jan-06",
	"02-Jan-2006",
}

// GetDate parses a column as a date, trying the layouts seen across
// marketplace exports
func (r *Row) GetDate(header string) (time.Time, error) {
	raw := strings.TrimSpace(r.Get(header))
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next row from the CSV
func (p *CSVParser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		p.currentRow++
		return nil, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
	}

	p.currentRow++
	p.totalRows++

	row := &Row{
		LineNumber: p.currentRow,
		data:       make(map[string]string, len(p.headers)),
	}

	for i, header := range p.headers {
		key := normalizeHeader(header)
		if i < len(record) {
			row.data[key] = strings.TrimSpace(record[i])
		} else {
			row.data[key] = ""
		}
	}

	return row, nil
}

// ReadAllRows reads all remaining rows, skipping fully empty ones
func (p *CSVParser) ReadAllRows() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// TotalRows returns the total number of data rows read
func (p *CSVParser) TotalRows() int {
	return p.totalRows
}
