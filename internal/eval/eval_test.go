package eval

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royalbit/mouvify-forge-sub002/internal/loader"
	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

// loadFiles parses an in-memory document tree rooted at root.
func loadFiles(t *testing.T, files map[string]string, root string) *model.Model {
	t.Helper()
	m, err := loader.Load(context.Background(), root, func(path string) ([]byte, error) {
		src, ok := files[path]
		if !ok {
			return nil, fmt.Errorf("no such file %s", path)
		}
		return []byte(src), nil
	})
	require.NoError(t, err)
	return m
}

func loadOne(t *testing.T, doc string) *model.Model {
	t.Helper()
	return loadFiles(t, map[string]string{"m.fml": doc}, "m.fml")
}

func TestCalculateRowWise(t *testing.T) {
	m := loadOne(t, `
table "income" {
  column "revenue" {
    values = [100, 250, 300]
  }
  column "cost" {
    values = [40, 140, 120]
  }
  column "profit" {
    formula = "=revenue - cost"
  }
}

scalar "total_profit" {
  formula = "=SUM(income.profit)"
}
`)
	require.NoError(t, Calculate(context.Background(), m))

	profit := m.Table("income").Column("profit")
	require.Len(t, profit.Values, 3)
	assert.True(t, profit.Values[0].Equal(model.Number(60)))
	assert.True(t, profit.Values[1].Equal(model.Number(110)))
	assert.True(t, profit.Values[2].Equal(model.Number(180)))

	total := m.Scalar("total_profit")
	assert.True(t, total.Resolved)
	assert.True(t, total.Value.Equal(model.Number(350)))
}

func TestCalculateIsIdempotent(t *testing.T) {
	m := loadOne(t, `
table "t" {
  column "a" {
    values = [1, 2, 3]
  }
  column "b" {
    formula = "=a * 2"
  }
}

scalar "s" {
  formula = "=SUM(t.b)"
}
`)
	require.NoError(t, Calculate(context.Background(), m))
	first := m.Clone()
	require.NoError(t, Calculate(context.Background(), m))

	for i, v := range m.Table("t").Column("b").Values {
		assert.True(t, v.Equal(first.Table("t").Column("b").Values[i]))
	}
	assert.True(t, m.Scalar("s").Value.Equal(first.Scalar("s").Value))
}

func TestColumnChains(t *testing.T) {
	m := loadOne(t, `
table "t" {
  column "base" {
    values = [10, 20]
  }
  column "double" {
    formula = "=base * 2"
  }
  column "quad" {
    formula = "=double * 2"
  }
}
`)
	require.NoError(t, Calculate(context.Background(), m))
	quad := m.Table("t").Column("quad")
	assert.True(t, quad.Values[0].Equal(model.Number(40)))
	assert.True(t, quad.Values[1].Equal(model.Number(80)))
}

func TestScalarResolutionOrder(t *testing.T) {
	// total depends on margin which depends on price; declaration order is
	// reversed so resolution must follow dependencies, not position.
	m := loadOne(t, `
scalar "total" {
  formula = "=margin * 2"
}

scalar "margin" {
  formula = "=price - 10"
}

scalar "price" {
  value = 60
}
`)
	require.NoError(t, Calculate(context.Background(), m))
	assert.True(t, m.Scalar("margin").Value.Equal(model.Number(50)))
	assert.True(t, m.Scalar("total").Value.Equal(model.Number(100)))
}

func TestCycleDetection(t *testing.T) {
	t.Run("two scalars name both members", func(t *testing.T) {
		m := loadOne(t, `
scalar "a" {
  formula = "=b + 1"
}

scalar "b" {
  formula = "=a + 1"
}
`)
		err := Calculate(context.Background(), m)
		var cycle *model.CycleError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, []string{"a", "b"}, cycle.Members)
	})

	t.Run("self reference", func(t *testing.T) {
		m := loadOne(t, `
scalar "a" {
  formula = "=a + 1"
}
`)
		err := Calculate(context.Background(), m)
		var cycle *model.CycleError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, []string{"a"}, cycle.Members)
	})

	t.Run("downstream nodes are not named", func(t *testing.T) {
		m := loadOne(t, `
scalar "a" {
  formula = "=b"
}

scalar "b" {
  formula = "=a"
}

scalar "c" {
  formula = "=a + 1"
}
`)
		err := Calculate(context.Background(), m)
		var cycle *model.CycleError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, []string{"a", "b"}, cycle.Members)
	})

	t.Run("no value is written on a failed pass", func(t *testing.T) {
		m := loadOne(t, `
table "t" {
  column "a" {
    values = [1]
  }
  column "ok" {
    formula = "=a + 1"
  }
}

scalar "x" {
  formula = "=y"
}

scalar "y" {
  formula = "=x"
}
`)
		require.Error(t, Calculate(context.Background(), m))
		assert.Nil(t, m.Table("t").Column("ok").Values)
	})
}

func TestUnknownReference(t *testing.T) {
	m := loadOne(t, `
scalar "a" {
  formula = "=ghost * 2"
}
`)
	err := Calculate(context.Background(), m)
	var unknown *model.UnknownReferenceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "ghost", unknown.Ref)
}

func TestRowErrorsAreCollected(t *testing.T) {
	m := loadOne(t, `
table "t" {
  column "num" {
    values = [10, 20, 30]
  }
  column "den" {
    values = [2, 0, 5]
  }
  column "ratio" {
    formula = "=num / den"
  }
}
`)
	err := Calculate(context.Background(), m)
	var rowErrs model.RowErrors
	require.ErrorAs(t, err, &rowErrs)
	require.Len(t, rowErrs, 1)
	assert.Equal(t, "t.ratio", rowErrs[0].Ident)
	assert.Equal(t, 1, rowErrs[0].Row)

	// good rows are still written, the bad one holds NaN
	ratio := m.Table("t").Column("ratio").Values
	require.Len(t, ratio, 3)
	assert.True(t, ratio[0].Equal(model.Number(5)))
	assert.True(t, math.IsNaN(ratio[1].Num()))
	assert.True(t, ratio[2].Equal(model.Number(6)))
}

func TestLookupMissIsCollectedPerRow(t *testing.T) {
	m := loadOne(t, `
table "t" {
  column "key" {
    values = [1, 2, 3]
  }
  column "double" {
    formula = "=key * 2"
  }
  column "found" {
    formula = "=MATCH(99, key, 0)"
  }
}
`)
	err := Calculate(context.Background(), m)
	var rowErrs model.RowErrors
	require.ErrorAs(t, err, &rowErrs)
	require.Len(t, rowErrs, 3)
	for i, re := range rowErrs {
		assert.Equal(t, "t.found", re.Ident)
		assert.Equal(t, i, re.Row)
	}

	// a missing lookup value never aborts the pass: the rest is written
	double := m.Table("t").Column("double").Values
	require.Len(t, double, 3)
	assert.True(t, double[0].Equal(model.Number(2)))
	assert.True(t, double[1].Equal(model.Number(4)))
	assert.True(t, double[2].Equal(model.Number(6)))
	found := m.Table("t").Column("found").Values
	require.Len(t, found, 3)
	assert.True(t, math.IsNaN(found[0].Num()))
}

func TestIndexedReference(t *testing.T) {
	m := loadOne(t, `
table "t" {
  column "amount" {
    values = [10, 20, 30]
  }
}

scalar "first" {
  formula = "=t.amount[0]"
}

scalar "beyond" {
  formula = "=SUM(t.amount) + t.amount[2]"
}
`)
	require.NoError(t, Calculate(context.Background(), m))
	assert.True(t, m.Scalar("first").Value.Equal(model.Number(10)))
	assert.True(t, m.Scalar("beyond").Value.Equal(model.Number(90)))
}

func TestConditionalAggregation(t *testing.T) {
	m := loadOne(t, `
table "sales" {
  column "region" {
    values = ["north", "south", "north"]
  }
  column "amount" {
    values = [10, 20, 30]
  }
}

scalar "north_total" {
  formula = "=SUMIF(sales.region, \"north\", sales.amount)"
}
`)
	require.NoError(t, Calculate(context.Background(), m))
	assert.True(t, m.Scalar("north_total").Value.Equal(model.Number(40)))
}

func TestIncludes(t *testing.T) {
	files := map[string]string{
		"main.fml": `
include "assumptions" {
  path = "rates.fml"
}

table "t" {
  column "amount" {
    values = [100, 200]
  }
  column "local" {
    formula = "=amount * assumptions.fx"
  }
}

scalar "grand" {
  formula = "=SUM(t.local)"
}
`,
		"rates.fml": `
scalar "fx" {
  formula = "=base * 1.1"
}

scalar "base" {
  value = 1
}
`,
	}
	m := loadFiles(t, files, "main.fml")
	require.NoError(t, Calculate(context.Background(), m))

	local := m.Table("t").Column("local").Values
	assert.InDelta(t, 110, local[0].Num(), 1e-9)
	assert.InDelta(t, 330, m.Scalar("grand").Value.Num(), 1e-9)
}

func TestScenarioOverride(t *testing.T) {
	m := loadOne(t, `
scalar "price" {
  value = 25
}

scalar "margin" {
  formula = "=price * 2"
}

scenario "high" {
  set = { price = 100 }
}
`)
	clone := m.Clone()
	require.NoError(t, clone.ApplyScenario("high"))
	require.NoError(t, Calculate(context.Background(), clone))
	assert.True(t, clone.Scalar("margin").Value.Equal(model.Number(200)))

	// base model still calculates with its own price
	require.NoError(t, Calculate(context.Background(), m))
	assert.True(t, m.Scalar("margin").Value.Equal(model.Number(50)))
}

func TestComparisonAndConcat(t *testing.T) {
	m := loadOne(t, `
table "t" {
  column "amount" {
    values = [5, 15]
  }
  column "big" {
    formula = "=amount > 10"
  }
  column "label" {
    formula = "=\"row-\" & amount"
  }
}
`)
	require.NoError(t, Calculate(context.Background(), m))
	big := m.Table("t").Column("big").Values
	assert.True(t, big[0].Equal(model.Bool(false)))
	assert.True(t, big[1].Equal(model.Bool(true)))

	label := m.Table("t").Column("label").Values
	assert.Equal(t, "row-5", label[0].Str())
	assert.Equal(t, "row-15", label[1].Str())
}

func TestPercentAndPower(t *testing.T) {
	m := loadOne(t, `
scalar "rate" {
  value = 12.5
}

scalar "fraction" {
  formula = "=rate%"
}

scalar "squared" {
  formula = "=rate ^ 2"
}
`)
	require.NoError(t, Calculate(context.Background(), m))
	assert.InDelta(t, 0.125, m.Scalar("fraction").Value.Num(), 1e-12)
	assert.InDelta(t, 156.25, m.Scalar("squared").Value.Num(), 1e-12)
}

func TestResolveIdentifier(t *testing.T) {
	m := loadOne(t, `
table "t" {
  column "amount" {
    values = [10, 20]
  }
}

scalar "total" {
  formula = "=SUM(t.amount)"
}
`)
	require.NoError(t, Calculate(context.Background(), m))

	v, err := ResolveIdentifier(m, "total")
	require.NoError(t, err)
	assert.True(t, v.Equal(model.Number(30)))

	v, err = ResolveIdentifier(m, "t.amount[1]")
	require.NoError(t, err)
	assert.True(t, v.Equal(model.Number(20)))

	_, err = ResolveIdentifier(m, "1 + 2")
	require.Error(t, err)
}

func TestPlanOrderIsDeterministic(t *testing.T) {
	doc := `
scalar "z" {
  formula = "=base + 1"
}

scalar "a" {
  formula = "=base + 2"
}

scalar "m" {
  formula = "=base + 3"
}

scalar "base" {
  value = 0
}
`
	var last []string
	for i := 0; i < 5; i++ {
		plan, err := PlanModel(loadOne(t, doc))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "m", "z"}, plan.Order)
		if last != nil {
			assert.Equal(t, last, plan.Order)
		}
		last = plan.Order
	}
}
