package solver

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBisect(t *testing.T) {
	ctx := context.Background()

	t.Run("finds the root of a line", func(t *testing.T) {
		f := func(x float64) (float64, error) { return 2*x - 10, nil }
		root, err := Bisect(ctx, f, 0, 100, 0, 0)
		require.NoError(t, err)
		assert.InDelta(t, 5, root, DefaultTolerance)
	})

	t.Run("accepts swapped bounds", func(t *testing.T) {
		f := func(x float64) (float64, error) { return x*x - 9, nil }
		root, err := Bisect(ctx, f, 10, 0, 0, 0)
		require.NoError(t, err)
		assert.InDelta(t, 3, root, 1e-6)
	})

	t.Run("rejects bounds without a sign change", func(t *testing.T) {
		f := func(x float64) (float64, error) { return x*x + 1, nil }
		_, err := Bisect(ctx, f, -5, 5, 0, 0)
		require.ErrorIs(t, err, ErrNoSignChange)
	})

	t.Run("reports the best point when the budget runs out", func(t *testing.T) {
		f := func(x float64) (float64, error) { return x - math.Pi, nil }
		_, err := Bisect(ctx, f, 0, 100, 1e-15, 5)
		var budget *BudgetExceededError
		require.ErrorAs(t, err, &budget)
		assert.Equal(t, 5, budget.Iterations)
		assert.InDelta(t, math.Pi, budget.Best, 100/math.Pow(2, 5))
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		f := func(x float64) (float64, error) { return x - 1, nil }
		_, err := Bisect(cancelled, f, 0, 2000, 1e-12, 0)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewton(t *testing.T) {
	ctx := context.Background()

	t.Run("converges quadratically on a smooth root", func(t *testing.T) {
		f := func(x float64) (float64, error) { return x*x - 2, nil }
		root, err := Newton(ctx, f, 1, 0, 0)
		require.NoError(t, err)
		assert.InDelta(t, math.Sqrt2, root, 1e-9)
	})

	t.Run("fails when the iteration diverges", func(t *testing.T) {
		// flat objective: the derivative estimate is zero everywhere
		f := func(x float64) (float64, error) { return 1, nil }
		_, err := Newton(ctx, f, 0, 0, 10)
		require.Error(t, err)
	})
}

func TestRangePoints(t *testing.T) {
	t.Run("includes both endpoints", func(t *testing.T) {
		pts, err := Range{Start: 0, End: 1, Step: 0.25}.Points()
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, pts)
	})

	t.Run("keeps a drifting endpoint within half a step", func(t *testing.T) {
		pts, err := Range{Start: 0, End: 0.3, Step: 0.1}.Points()
		require.NoError(t, err)
		require.Len(t, pts, 4)
		assert.InDelta(t, 0.3, pts[3], 1e-12)
	})

	t.Run("rejects a non-positive step", func(t *testing.T) {
		_, err := Range{Start: 0, End: 1, Step: 0}.Points()
		require.Error(t, err)
	})

	t.Run("rejects a reversed range", func(t *testing.T) {
		_, err := Range{Start: 1, End: 0, Step: 0.5}.Points()
		require.Error(t, err)
	})
}
