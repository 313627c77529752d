package csvimport

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAll(t *testing.T, data string) []*Row {
	t.Helper()
	parser, err := NewCSVParser(strings.NewReader(data))
	require.NoError(t, err)
	require.NoError(t, parser.ParseHeader())
	rows, err := parser.ReadAllRows()
	require.NoError(t, err)
	return rows
}

func TestParseHeader(t *testing.T) {
	t.Run("strips UTF-8 BOM", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("\xEF\xBB\xBFname,value\na,1\n"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())
		assert.True(t, parser.HasHeader("name"))
	})

	t.Run("matches headers case-insensitively", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("Order  ID,Event Type\n"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())
		assert.True(t, parser.HasHeader("order id"))
		assert.True(t, parser.HasHeader("ORDER ID"))
		assert.Empty(t, parser.ValidateHeaders([]string{"Order ID", "Event Type"}))
		assert.Equal(t, []string{"SKU"}, parser.ValidateHeaders([]string{"SKU"}))
	})

	t.Run("empty file is rejected", func(t *testing.T) {
		_, err := NewCSVParser(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("non UTF-8 content is rejected", func(t *testing.T) {
		_, err := NewCSVParser(strings.NewReader("name\n\xff\xfe\n"))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})
}

func TestReadAllRows(t *testing.T) {
	rows := parseAll(t, "name,value\na,1\n,,\nb,2\n")
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].Get("name"))
	assert.Equal(t, "b", rows[1].Get("name"))
	assert.Equal(t, 2, rows[0].LineNumber)

	t.Run("short rows are padded to the header width", func(t *testing.T) {
		rows := parseAll(t, "a,b,c\n1,2\n")
		require.Len(t, rows, 1)
		assert.Equal(t, "", rows[0].Get("c"))
	})
}

func TestRowGet(t *testing.T) {
	rows := parseAll(t, "Product Name,amount\nWidget,10\n")
	row := rows[0]

	assert.Equal(t, "Widget", row.Get("product name"))
	assert.Equal(t, "Widget", row.GetAny("sku", "product name"))
	assert.Equal(t, "", row.GetAny("sku", "missing"))
}

func TestRowGetDecimal(t *testing.T) {
	rows := parseAll(t, "a,b,c,d,e\n1234.56,nan,-,\"1,000\",oops\n")
	row := rows[0]

	v, err := row.GetDecimal("a")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(1234.56).Equal(v))

	for _, col := range []string{"b", "c"} {
		v, err := row.GetDecimal(col)
		require.NoError(t, err)
		assert.True(t, v.IsZero(), col)
	}

	v, err = row.GetDecimal("d")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(v))

	_, err = row.GetDecimal("e")
	assert.Error(t, err)
}

func TestRowGetDate(t *testing.T) {
	cases := map[string]time.Time{
		"2024-07-15":          time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		"15/07/2024":          time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		"15-07-2024":          time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		"2024-07-15 10:30:00": time.Date(2024, 7, 15, 10, 30, 0, 0, time.UTC),
		"2-Jul-24":            time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		rows := parseAll(t, "d\n"+raw+"\n")
		got, err := rows[0].GetDate("d")
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	rows := parseAll(t, "d\nnot-a-date\n")
	_, err := rows[0].GetDate("d")
	assert.Error(t, err)

	rows = parseAll(t, "d,x\n,1\n")
	_, err = rows[0].GetDate("d")
	assert.Error(t, err)
}

func TestWithDelimiter(t *testing.T) {
	parser, err := NewCSVParser(strings.NewReader("a;b\n1;2\n"), WithDelimiter(';'))
	require.NoError(t, err)
	require.NoError(t, parser.ParseHeader())
	rows, err := parser.ReadAllRows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2", rows[0].Get("b"))
}
