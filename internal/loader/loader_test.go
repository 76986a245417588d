package loader

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

func reader(files map[string]string) FileReader {
	return func(path string) ([]byte, error) {
		src, ok := files[path]
		if !ok {
			return nil, fmt.Errorf("no such file %s", path)
		}
		return []byte(src), nil
	}
}

func TestLoad(t *testing.T) {
	files := map[string]string{"m.fml": `
table "income" {
  column "revenue" {
    values = [100, 250]
  }
  column "cost" {
    values = [40, 140]
    favor  = "down"
  }
  column "profit" {
    formula = "=revenue - cost"
  }
}

scalar "price" {
  value = 19.99
}

scalar "label" {
  value = "baseline"
}

scalar "active" {
  value = true
}

scalar "start" {
  value = "2026-01-31"
}

scenario "high" {
  set = { price = 25 }
}
`}
	m, err := Load(context.Background(), "m.fml", reader(files))
	require.NoError(t, err)

	income := m.Table("income")
	require.NotNil(t, income)
	require.Len(t, income.Columns, 3)

	cost := income.Column("cost")
	assert.Equal(t, model.FavorDown, cost.Favor)
	assert.True(t, cost.Values[1].Equal(model.Number(140)))

	profit := income.Column("profit")
	assert.True(t, profit.IsDerived())
	assert.Nil(t, profit.Values)

	assert.Equal(t, model.KindText, m.Scalar("label").Value.Kind())
	assert.Equal(t, model.KindBool, m.Scalar("active").Value.Kind())

	// date-shaped strings become dates
	start := m.Scalar("start").Value
	require.Equal(t, model.KindDate, start.Kind())
	assert.True(t, start.Time().Equal(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)))

	sc := m.Scenario("high")
	require.NotNil(t, sc)
	assert.True(t, sc.Set["price"].Equal(model.Number(25)))
}

func TestLoadIncludes(t *testing.T) {
	files := map[string]string{
		"dir/main.fml": `
include "rates" {
  path = "shared/rates.fml"
}

scalar "price" {
  formula = "=rates.fx * 10"
}
`,
		"dir/shared/rates.fml": `
scalar "fx" {
  value = 1.1
}
`,
	}
	m, err := Load(context.Background(), "dir/main.fml", reader(files))
	require.NoError(t, err)
	require.Len(t, m.Includes, 1)
	assert.Equal(t, "rates", m.Includes[0].Alias)
	require.NotNil(t, m.Includes[0].Model.Scalar("fx"))
}

func TestLoadSharedIncludeIsLoadedOnce(t *testing.T) {
	files := map[string]string{
		"main.fml": `
include "a" {
  path = "left.fml"
}

include "b" {
  path = "right.fml"
}

scalar "x" {
  value = 1
}
`,
		"left.fml": `
include "shared" {
  path = "common.fml"
}

scalar "l" {
  value = 1
}
`,
		"right.fml": `
include "shared" {
  path = "common.fml"
}

scalar "r" {
  value = 1
}
`,
		"common.fml": `
scalar "c" {
  value = 1
}
`,
	}
	m, err := Load(context.Background(), "main.fml", reader(files))
	require.NoError(t, err)

	left := m.Include("a").Model
	right := m.Include("b").Model
	assert.Same(t, left.Include("shared").Model, right.Include("shared").Model)
}

func TestLoadIncludeCycle(t *testing.T) {
	files := map[string]string{
		"a.fml": `
include "b" {
  path = "b.fml"
}

scalar "x" {
  value = 1
}
`,
		"b.fml": `
include "a" {
  path = "a.fml"
}

scalar "y" {
  value = 1
}
`,
	}
	_, err := Load(context.Background(), "a.fml", reader(files))
	var cycle *model.IncludeCycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"a.fml", "b.fml", "a.fml"}, cycle.Chain)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"bad formula": `
scalar "a" {
  formula = "a + 1"
}
`,
		"empty column": `
table "t" {
  column "a" {
  }
}
`,
		"heterogeneous column": `
table "t" {
  column "a" {
    values = [1, "two"]
  }
}
`,
		"ragged table": `
table "t" {
  column "a" {
    values = [1, 2]
  }
  column "b" {
    values = [1]
  }
}
`,
		"bad favor": `
scalar "a" {
  value = 1
  favor = "sideways"
}
`,
		"duplicate column": `
table "t" {
  column "a" {
    values = [1]
  }
  column "a" {
    values = [2]
  }
}
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(context.Background(), "m.fml", reader(map[string]string{"m.fml": doc}))
			require.Error(t, err)
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	files := map[string]string{"m.fml": `
table "income" {
  column "revenue" {
    values = [100, 250]
  }
  column "cost" {
    values = [40, 140]
    favor  = "down"
  }
  column "profit" {
    formula = "=revenue - cost"
  }
}

scalar "price" {
  value = 19.99
}

scalar "margin" {
  formula = "=SUM(income.profit)"
}

scenario "high" {
  set = { price = 25 }
}
`}
	m, err := Load(context.Background(), "m.fml", reader(files))
	require.NoError(t, err)

	src, err := Write(m)
	require.NoError(t, err)

	// strip the include-free document's path dependence by re-reading it
	back, err := Load(context.Background(), "again.fml",
		reader(map[string]string{"again.fml": string(src)}))
	require.NoError(t, err)

	assert.Equal(t, model.FavorDown, back.Table("income").Column("cost").Favor)
	assert.Equal(t, "=revenue - cost", back.Table("income").Column("profit").Formula)
	assert.True(t, back.Scalar("price").Value.Equal(model.Number(19.99)))
	assert.Equal(t, "=SUM(income.profit)", back.Scalar("margin").Formula)
	require.NotNil(t, back.Scenario("high"))
	assert.True(t, back.Scenario("high").Set["price"].Equal(model.Number(25)))
}
