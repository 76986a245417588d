package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

func TestParse(t *testing.T) {
	t.Run("rejects a missing equals prefix", func(t *testing.T) {
		_, err := Parse("revenue - cost")
		var pe *model.ParseError
		require.ErrorAs(t, err, &pe)
	})

	t.Run("binary precedence", func(t *testing.T) {
		n, err := Parse("=a + b * c")
		require.NoError(t, err)
		bin, ok := n.(*Binary)
		require.True(t, ok)
		assert.Equal(t, "+", bin.Op)
		inner, ok := bin.R.(*Binary)
		require.True(t, ok)
		assert.Equal(t, "*", inner.Op)
	})

	t.Run("power is right associative", func(t *testing.T) {
		n, err := Parse("=2 ^ 3 ^ 2")
		require.NoError(t, err)
		bin := n.(*Binary)
		assert.Equal(t, "^", bin.Op)
		_, leftIsLit := bin.L.(*NumberLit)
		assert.True(t, leftIsLit)
		right, ok := bin.R.(*Binary)
		require.True(t, ok)
		assert.Equal(t, "^", right.Op)
	})

	t.Run("comparison binds loosest", func(t *testing.T) {
		n, err := Parse("=a + 1 >= b * 2")
		require.NoError(t, err)
		bin := n.(*Binary)
		assert.Equal(t, ">=", bin.Op)
	})

	t.Run("function call with dotted and indexed refs", func(t *testing.T) {
		n, err := Parse(`=SUMIF(sales.region, "north", sales.amount) + units[0]`)
		require.NoError(t, err)
		refs := Refs(n)
		require.Len(t, refs, 3)
		assert.Equal(t, []string{"sales", "region"}, refs[0].Parts)
		assert.Equal(t, -1, refs[0].Index)
		assert.Equal(t, []string{"units"}, refs[2].Parts)
		assert.Equal(t, 0, refs[2].Index)
	})

	t.Run("three part alias reference", func(t *testing.T) {
		n, err := Parse("=assumptions.rates.fx")
		require.NoError(t, err)
		ref, ok := n.(*Ref)
		require.True(t, ok)
		assert.Equal(t, []string{"assumptions", "rates", "fx"}, ref.Parts)
	})

	t.Run("rejects a fourth reference part", func(t *testing.T) {
		_, err := Parse("=a.b.c.d")
		var pe *model.ParseError
		require.ErrorAs(t, err, &pe)
	})

	t.Run("rejects a negative index", func(t *testing.T) {
		_, err := Parse("=units[-1]")
		var pe *model.ParseError
		require.ErrorAs(t, err, &pe)
	})

	t.Run("percent postfix and unary minus", func(t *testing.T) {
		n, err := Parse("=-rate%")
		require.NoError(t, err)
		outer, ok := n.(*Unary)
		require.True(t, ok)
		assert.Equal(t, "-", outer.Op)
		inner, ok := outer.X.(*Unary)
		require.True(t, ok)
		assert.Equal(t, "%", inner.Op)
		assert.True(t, inner.Postfix)
	})

	t.Run("string literal with doubled quote", func(t *testing.T) {
		n, err := Parse(`="say ""hi"""`)
		require.NoError(t, err)
		lit, ok := n.(*StringLit)
		require.True(t, ok)
		assert.Equal(t, `say "hi"`, lit.Value)
	})

	t.Run("scientific notation", func(t *testing.T) {
		n, err := Parse("=1.5e3")
		require.NoError(t, err)
		lit := n.(*NumberLit)
		assert.Equal(t, 1500.0, lit.Value)
	})

	t.Run("reports the error position", func(t *testing.T) {
		_, err := Parse("=a + ")
		var pe *model.ParseError
		require.ErrorAs(t, err, &pe)
		assert.NotEmpty(t, pe.Msg)
	})
}

func TestStringRoundTrip(t *testing.T) {
	// String must render a formula that parses back to the same tree.
	cases := []string{
		"=revenue - cost",
		"=SUM(income.profit)",
		`=IF(region = "north", amount * 1.1, amount)`,
		"=(a + b) * c",
		"=-cost[2] + base.fx",
		"=NPV(rate, flows.cash) ^ 2",
		"=a <> b",
		"=rate%",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			n, err := Parse(src)
			require.NoError(t, err)
			rendered := "=" + n.String()
			again, err := Parse(rendered)
			require.NoError(t, err)
			assert.Equal(t, rendered, "="+again.String())
			assert.Equal(t, src, rendered)
		})
	}
}
