package translate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
	"github.com/royalbit/mouvify-forge-sub002/internal/sheet"
)

func incomeModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New("income.fml")
	tbl := model.NewTable("income")
	require.NoError(t, tbl.AddColumn(&model.Column{
		Name:   "revenue",
		Values: []model.Value{model.Number(100), model.Number(250), model.Number(300)},
	}))
	require.NoError(t, tbl.AddColumn(&model.Column{
		Name:   "cost",
		Values: []model.Value{model.Number(40), model.Number(140), model.Number(120)},
	}))
	require.NoError(t, tbl.AddColumn(&model.Column{Name: "profit", Formula: "=revenue - cost"}))
	require.NoError(t, m.AddTable(tbl))
	require.NoError(t, m.AddScalar(&model.Scalar{Name: "total_profit", Formula: "=SUM(income.profit)"}))
	require.NoError(t, m.AddScalar(&model.Scalar{Name: "tax_rate", Value: model.Number(0.2), Resolved: true}))
	require.NoError(t, m.AddScalar(&model.Scalar{Name: "tax", Formula: "=total_profit * tax_rate"}))
	return m
}

func TestExport(t *testing.T) {
	sheets, err := Export(context.Background(), incomeModel(t))
	require.NoError(t, err)
	require.Len(t, sheets, 2)

	income := sheets[0]
	assert.Equal(t, "income", income.Name)
	assert.Equal(t, []string{"revenue", "cost", "profit"}, income.Header)
	require.Len(t, income.Rows, 3)
	assert.Equal(t, sheet.NumberCell(100), income.Rows[0][0])
	assert.Equal(t, sheet.FormulaCell("A2 - B2"), income.Rows[0][2])
	assert.Equal(t, sheet.FormulaCell("A4 - B4"), income.Rows[2][2])

	scalars := sheets[1]
	assert.Equal(t, sheet.ScalarsSheetName, scalars.Name)
	require.Len(t, scalars.Rows, 3)
	assert.Equal(t, sheet.TextCell("total_profit"), scalars.Rows[0][0])
	assert.Equal(t, sheet.FormulaCell("SUM(income!C2:C4)"), scalars.Rows[0][1])
	assert.Equal(t, sheet.NumberCell(0.2), scalars.Rows[1][1])
	assert.Equal(t, sheet.FormulaCell("B2 * B3"), scalars.Rows[2][1])
}

func TestRoundTrip(t *testing.T) {
	orig := incomeModel(t)
	sheets, err := Export(context.Background(), orig)
	require.NoError(t, err)

	back, err := Import(context.Background(), sheets)
	require.NoError(t, err)

	tbl := back.Table("income")
	require.NotNil(t, tbl)
	profit := tbl.Column("profit")
	require.NotNil(t, profit)
	assert.Equal(t, "=revenue - cost", profit.Formula)

	revenue := tbl.Column("revenue")
	require.NotNil(t, revenue)
	require.Len(t, revenue.Values, 3)
	assert.True(t, revenue.Values[1].Equal(model.Number(250)))

	total := back.Scalar("total_profit")
	require.NotNil(t, total)
	assert.Equal(t, "=SUM(income.profit)", total.Formula)

	tax := back.Scalar("tax")
	require.NotNil(t, tax)
	assert.Equal(t, "=total_profit * tax_rate", tax.Formula)

	rate := back.Scalar("tax_rate")
	require.NotNil(t, rate)
	assert.True(t, rate.Resolved)
	assert.True(t, rate.Value.Equal(model.Number(0.2)))
}

func TestImportRejectsDisagreeingRows(t *testing.T) {
	s := sheet.Sheet{
		Name:   "plan",
		Header: []string{"base", "derived"},
		Rows: [][]sheet.Cell{
			{sheet.NumberCell(1), sheet.FormulaCell("A2 * 2")},
			{sheet.NumberCell(2), sheet.FormulaCell("A3 + 1")},
		},
	}
	_, err := Import(context.Background(), []sheet.Sheet{s})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows disagree")
}

func TestImportIndexedAndCrossSheetRefs(t *testing.T) {
	base := sheet.Sheet{
		Name:   "base",
		Header: []string{"amount"},
		Rows: [][]sheet.Cell{
			{sheet.NumberCell(10)},
			{sheet.NumberCell(20)},
		},
	}
	deriv := sheet.Sheet{
		Name:   "deriv",
		Header: []string{"first", "scaled"},
		Rows: [][]sheet.Cell{
			{sheet.FormulaCell("base!A2"), sheet.FormulaCell("base!A2:A3")},
		},
	}
	m, err := Import(context.Background(), []sheet.Sheet{base, deriv})
	require.NoError(t, err)

	tbl := m.Table("deriv")
	require.NotNil(t, tbl)
	first := tbl.Column("first")
	require.NotNil(t, first)
	assert.Equal(t, "=base.amount[0]", first.Formula)
	scaled := tbl.Column("scaled")
	require.NotNil(t, scaled)
	assert.Equal(t, "=base.amount", scaled.Formula)
}

func TestIndexedSameTableRoundTrip(t *testing.T) {
	m := model.New("norm.fml")
	tbl := model.NewTable("t")
	require.NoError(t, tbl.AddColumn(&model.Column{
		Name:   "base",
		Values: []model.Value{model.Number(4), model.Number(8)},
	}))
	require.NoError(t, tbl.AddColumn(&model.Column{Name: "norm", Formula: "=base / base[0]"}))
	require.NoError(t, m.AddTable(tbl))

	sheets, err := Export(context.Background(), m)
	require.NoError(t, err)
	require.Len(t, sheets, 1)

	// the fixed-row reference exports anchored so row 0 stays unambiguous
	assert.Equal(t, sheet.FormulaCell("A2 / $A$2"), sheets[0].Rows[0][1])
	assert.Equal(t, sheet.FormulaCell("A3 / $A$2"), sheets[0].Rows[1][1])

	back, err := Import(context.Background(), sheets)
	require.NoError(t, err)
	tb := back.Table("t")
	require.NotNil(t, tb)
	norm := tb.Column("norm")
	require.NotNil(t, norm)
	assert.Equal(t, "=base / base[0]", norm.Formula)
}

func TestExportRejectsReservedTableName(t *testing.T) {
	m := model.New("bad.fml")
	tbl := model.NewTable(sheet.ScalarsSheetName)
	require.NoError(t, tbl.AddColumn(&model.Column{
		Name:   "x",
		Values: []model.Value{model.Number(1)},
	}))
	require.NoError(t, m.AddTable(tbl))

	_, err := Export(context.Background(), m)
	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, terr.Msg, "reserved")
}

func TestExportCrossFileReferenceFails(t *testing.T) {
	m := model.New("main.fml")
	inc := model.New("rates.fml")
	require.NoError(t, inc.AddScalar(&model.Scalar{
		Name: "fx", Value: model.Number(1.1), Resolved: true,
	}))
	m.Includes = append(m.Includes, &model.Include{Alias: "rates", Path: "rates.fml", Model: inc})
	require.NoError(t, m.AddScalar(&model.Scalar{Name: "price", Formula: "=rates.fx * 10"}))

	_, err := Export(context.Background(), m)
	require.Error(t, err)
	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, terr.Msg, "cross-file")
}
