package xlsxio

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royalbit/mouvify-forge-sub002/internal/sheet"
)

func TestEncodeDecode(t *testing.T) {
	in := []sheet.Sheet{
		{
			Name:   "income",
			Header: []string{"revenue", "cost", "profit"},
			Rows: [][]sheet.Cell{
				{sheet.NumberCell(100), sheet.NumberCell(40), sheet.FormulaCell("A2 - B2")},
				{sheet.NumberCell(250), sheet.NumberCell(140), sheet.FormulaCell("A3 - B3")},
			},
		},
		{
			Name:   sheet.ScalarsSheetName,
			Header: []string{"name", "value"},
			Rows: [][]sheet.Cell{
				{sheet.TextCell("total"), sheet.FormulaCell("SUM(income!C2:C3)")},
				{sheet.TextCell("start"), sheet.DateCell(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))},
				{sheet.TextCell("active"), sheet.BoolCell(true)},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, in))

	out, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, out, 2)

	income := out[0]
	assert.Equal(t, "income", income.Name)
	assert.Equal(t, []string{"revenue", "cost", "profit"}, income.Header)
	require.Len(t, income.Rows, 2)
	assert.Equal(t, sheet.NumberCell(250), income.Rows[1][0])
	assert.Equal(t, sheet.CellFormula, income.Rows[0][2].Kind)
	assert.Equal(t, "A2 - B2", income.Rows[0][2].Formula)

	scalars := out[1]
	assert.Equal(t, sheet.CellFormula, scalars.Rows[0][1].Kind)
	assert.Equal(t, sheet.CellDate, scalars.Rows[1][1].Kind)
	assert.True(t, scalars.Rows[1][1].Date.Equal(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, sheet.BoolCell(true), scalars.Rows[2][1])
}

func TestDecodeEmptyWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []sheet.Sheet{{Name: "empty", Header: []string{"a"}}}))

	out, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Empty(t, out[0].Rows)
}
