package functions

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/royalbit/mouvify-forge-sub002/internal/model"
)

func nums(fs ...float64) Arg {
	vs := make([]model.Value, len(fs))
	for i, f := range fs {
		vs[i] = model.Number(f)
	}
	return ColumnArg(vs)
}

func texts(ss ...string) Arg {
	vs := make([]model.Value, len(ss))
	for i, s := range ss {
		vs[i] = model.Text(s)
	}
	return ColumnArg(vs)
}

func num(f float64) Arg  { return ScalarArg(model.Number(f)) }
func txt(s string) Arg   { return ScalarArg(model.Text(s)) }
func boolean(b bool) Arg { return ScalarArg(model.Bool(b)) }

func callNum(t *testing.T, name string, args ...Arg) float64 {
	t.Helper()
	v, err := Call(name, args)
	require.NoError(t, err)
	f, err := v.AsNumber()
	require.NoError(t, err)
	return f
}

func TestArity(t *testing.T) {
	_, err := Call("SUM", nil)
	require.Error(t, err)
	_, err = Call("IF", []Arg{boolean(true), num(1), num(0), num(9)})
	require.Error(t, err)
	_, err = Call("NO_SUCH_FUNCTION", []Arg{num(1)})
	require.Error(t, err)
}

func TestAggregates(t *testing.T) {
	assert.Equal(t, 6.0, callNum(t, "SUM", nums(1, 2, 3)))
	assert.Equal(t, 10.0, callNum(t, "SUM", nums(1, 2, 3), num(4)))
	assert.Equal(t, 2.0, callNum(t, "AVERAGE", nums(1, 2, 3)))
	assert.Equal(t, 1.0, callNum(t, "MIN", nums(3, 1, 2)))
	assert.Equal(t, 3.0, callNum(t, "MAX", nums(3, 1, 2)))
	assert.Equal(t, 3.0, callNum(t, "COUNT", nums(3, 1, 2)))

	_, err := Call("AVERAGE", []Arg{ColumnArg(nil)})
	require.Error(t, err)
}

func TestConditionalAggregates(t *testing.T) {
	region := texts("north", "south", "north")
	amount := nums(10, 20, 30)

	assert.Equal(t, 40.0, callNum(t, "SUMIF", region, txt("north"), amount))
	assert.Equal(t, 20.0, callNum(t, "AVERAGEIF", region, txt("north"), amount))
	assert.Equal(t, 2.0, callNum(t, "COUNTIF", region, txt("north")))

	// numeric comparison criteria
	assert.Equal(t, 50.0, callNum(t, "SUMIF", amount, txt(">=20"), amount))
	assert.Equal(t, 40.0, callNum(t, "SUMIF", amount, txt("<>20"), amount))
	assert.Equal(t, 1.0, callNum(t, "COUNTIF", amount, num(10)))

	t.Run("mismatched lengths", func(t *testing.T) {
		_, err := Call("SUMIF", []Arg{region, txt("north"), nums(1, 2)})
		require.Error(t, err)
	})

	t.Run("ordering criteria on text is a type error", func(t *testing.T) {
		_, err := Call("SUMIF", []Arg{region, txt(">north"), amount})
		var te *model.TypeError
		require.ErrorAs(t, err, &te)
	})
}

func TestLogical(t *testing.T) {
	v, err := Call("IF", []Arg{boolean(true), txt("yes"), txt("no")})
	require.NoError(t, err)
	assert.Equal(t, "yes", v.Str())

	v, err = Call("AND", []Arg{boolean(true), num(1), boolean(false)})
	require.NoError(t, err)
	assert.False(t, v.IsTrue())

	v, err = Call("OR", []Arg{boolean(false), num(0), boolean(true)})
	require.NoError(t, err)
	assert.True(t, v.IsTrue())

	v, err = Call("NOT", []Arg{boolean(false)})
	require.NoError(t, err)
	assert.True(t, v.IsTrue())
}

func TestMath(t *testing.T) {
	assert.Equal(t, 3.0, callNum(t, "ABS", num(-3)))
	assert.Equal(t, 4.0, callNum(t, "SQRT", num(16)))
	assert.Equal(t, 8.0, callNum(t, "POWER", num(2), num(3)))
	assert.Equal(t, 1.0, callNum(t, "MOD", num(7), num(3)))
	// MOD follows the sign of the divisor
	assert.Equal(t, 2.0, callNum(t, "MOD", num(-7), num(3)))

	assert.Equal(t, 3.14, callNum(t, "ROUND", num(3.14159), num(2)))
	assert.Equal(t, 3.15, callNum(t, "ROUNDUP", num(3.141), num(2)))
	assert.Equal(t, 3.14, callNum(t, "ROUNDDOWN", num(3.149), num(2)))
	// rounding away from zero for negatives
	assert.Equal(t, -3.15, callNum(t, "ROUNDUP", num(-3.141), num(2)))
	assert.Equal(t, -3.0, callNum(t, "ROUND", num(-2.5), num(0)))

	t.Run("negative sqrt is a domain error", func(t *testing.T) {
		_, err := Call("SQRT", []Arg{num(-1)})
		var de *model.MathDomainError
		require.ErrorAs(t, err, &de)
	})

	t.Run("mod by zero", func(t *testing.T) {
		_, err := Call("MOD", []Arg{num(5), num(0)})
		require.Error(t, err)
	})
}

func TestText(t *testing.T) {
	v, err := Call("CONCAT", []Arg{txt("fy"), num(26)})
	require.NoError(t, err)
	assert.Equal(t, "fy26", v.Str())

	v, err = Call("UPPER", []Arg{txt("north")})
	require.NoError(t, err)
	assert.Equal(t, "NORTH", v.Str())

	v, err = Call("TRIM", []Arg{txt("  x  ")})
	require.NoError(t, err)
	assert.Equal(t, "x", v.Str())

	assert.Equal(t, 4.0, callNum(t, "LEN", txt("café"))) // rune count, not bytes

	v, err = Call("LEFT", []Arg{txt("revenue"), num(3)})
	require.NoError(t, err)
	assert.Equal(t, "rev", v.Str())

	v, err = Call("RIGHT", []Arg{txt("revenue"), num(3)})
	require.NoError(t, err)
	assert.Equal(t, "nue", v.Str())
}

func TestDates(t *testing.T) {
	v, err := Call("DATE", []Arg{num(2026), num(2), num(28)})
	require.NoError(t, err)
	require.Equal(t, model.KindDate, v.Kind())
	assert.Equal(t, "2026-02-28", v.String())

	d := ScalarArg(model.Date(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2026.0, callNum(t, "YEAR", d))
	assert.Equal(t, 3.0, callNum(t, "MONTH", d))
	assert.Equal(t, 15.0, callNum(t, "DAY", d))

	v, err = Call("EDATE", []Arg{d, num(2)})
	require.NoError(t, err)
	assert.Equal(t, "2026-05-15", v.String())

	v, err = Call("EOMONTH", []Arg{d, num(-1)})
	require.NoError(t, err)
	assert.Equal(t, "2026-02-28", v.String())

	t.Run("text parseable as a date coerces", func(t *testing.T) {
		assert.Equal(t, 2026.0, callNum(t, "YEAR", txt("2026-01-01")))
	})
}

func TestLookup(t *testing.T) {
	keys := nums(10, 20, 30)
	names := texts("ten", "twenty", "thirty")

	t.Run("exact match", func(t *testing.T) {
		assert.Equal(t, 1.0, callNum(t, "MATCH", num(20), keys, num(0)))
		_, err := Call("MATCH", []Arg{num(25), keys, num(0)})
		var de *model.MathDomainError
		require.ErrorAs(t, err, &de)
	})

	t.Run("approximate match takes the last value not above the key", func(t *testing.T) {
		assert.Equal(t, 1.0, callNum(t, "MATCH", num(25), keys, num(1)))
		assert.Equal(t, 2.0, callNum(t, "MATCH", num(99), keys, num(1)))
	})

	t.Run("approximate match requires ascending input", func(t *testing.T) {
		_, err := Call("MATCH", []Arg{num(25), nums(30, 10, 20), num(1)})
		var de *model.MathDomainError
		require.ErrorAs(t, err, &de)
	})

	t.Run("index", func(t *testing.T) {
		v, err := Call("INDEX", []Arg{names, num(2)})
		require.NoError(t, err)
		assert.Equal(t, "thirty", v.Str())
		_, err = Call("INDEX", []Arg{names, num(3)})
		require.Error(t, err)
	})

	t.Run("vlookup", func(t *testing.T) {
		v, err := Call("VLOOKUP", []Arg{num(20), keys, names, num(0)})
		require.NoError(t, err)
		assert.Equal(t, "twenty", v.Str())

		_, err = Call("VLOOKUP", []Arg{num(99), keys, names, num(0)})
		var de *model.MathDomainError
		require.ErrorAs(t, err, &de)
	})
}

func TestFinancial(t *testing.T) {
	t.Run("npv discounts from period one", func(t *testing.T) {
		got := callNum(t, "NPV", num(0.1), nums(100, 100))
		want := 100/1.1 + 100/(1.1*1.1)
		assert.InDelta(t, want, got, 1e-9)
	})

	t.Run("irr zeroes the npv of the full flow", func(t *testing.T) {
		flows := nums(-100, 60, 60)
		rate := callNum(t, "IRR", flows)
		npv := -100 + 60/(1+rate) + 60/math.Pow(1+rate, 2)
		assert.InDelta(t, 0, npv, 1e-6)
	})

	t.Run("irr without a sign change is undefined", func(t *testing.T) {
		_, err := Call("IRR", []Arg{nums(100, 60, 60)})
		var de *model.MathDomainError
		require.ErrorAs(t, err, &de)
	})

	t.Run("pmt and its inverses agree", func(t *testing.T) {
		pmt := callNum(t, "PMT", num(0.01), num(12), num(-1000))
		assert.Greater(t, pmt, 0.0)
		pv := callNum(t, "PV", num(0.01), num(12), ScalarArg(model.Number(pmt)))
		assert.InDelta(t, -1000, pv, 1e-6)
		nper := callNum(t, "NPER", num(0.01), ScalarArg(model.Number(pmt)), num(-1000))
		assert.InDelta(t, 12, nper, 1e-6)
	})

	t.Run("fv of zero rate is plain accumulation", func(t *testing.T) {
		fv := callNum(t, "FV", num(0), num(10), num(-50))
		assert.InDelta(t, 500, fv, 1e-9)
	})

	t.Run("rate recovers the pmt rate", func(t *testing.T) {
		pmt := callNum(t, "PMT", num(0.01), num(12), num(-1000))
		rate := callNum(t, "RATE", num(12), ScalarArg(model.Number(pmt)), num(-1000))
		assert.InDelta(t, 0.01, rate, 1e-6)
	})
}
