package conditions

import (
	"context"
	"testing"
	"time"

	"github.com/denizgursoy/naica/pkg/naica"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Expr Tests
// =============================================================================

func TestExpr(t *testing.T) {
	t.Run("evaluates against run data", func(t *testing.T) {
		rc := naica.New(naica.WithData(map[string]any{
			"status": "paid",
			"items":  []string{"book", "pen"},
			"total":  42,
		}))

		require.True(t, MustExpr(`status == "paid" && len(items) == 2`).Evaluate(rc))
		require.True(t, MustExpr(`total > 40`).Evaluate(rc))
		require.False(t, MustExpr(`total > 50`).Evaluate(rc))
	})

	t.Run("undefined variables are nil", func(t *testing.T) {
		rc := naica.New()
		require.True(t, MustExpr(`missing == nil`).Evaluate(rc))
	})

	t.Run("sees data set after compilation", func(t *testing.T) {
		cond := MustExpr(`ready`)
		rc := naica.New()
		rc.Data().Set("ready", false)
		require.False(t, cond.Evaluate(rc))
		rc.Data().Set("ready", true)
		require.True(t, cond.Evaluate(rc))
	})

	t.Run("invalid expressions", func(t *testing.T) {
		for _, source := range []string{"", "   ", "a >", "1 + 2"} {
			_, err := Expr(source)
			require.ErrorIs(t, err, ErrInvalidExpression, source)
		}
		require.Panics(t, func() { MustExpr("a >") })
	})

	t.Run("runtime error is false", func(t *testing.T) {
		rc := naica.New(naica.WithData(map[string]any{"name": "alice"}))
		require.False(t, MustExpr(`name.first == "a"`).Evaluate(rc))
	})

	t.Run("string returns the source", func(t *testing.T) {
		require.Equal(t, "a == 1", MustExpr("  a == 1 ").String())
	})
}

// =============================================================================
// Eventually / Consistently Tests
// =============================================================================

func counter(trueFrom int) (naica.Condition, *int) {
	calls := 0
	return naica.ConditionFunc(func(*naica.RunContext) bool {
		calls++
		return calls >= trueFrom
	}), &calls
}

func TestEventually(t *testing.T) {
	fast := WaitConfig{Timeout: time.Second, Interval: time.Millisecond}

	t.Run("holds immediately", func(t *testing.T) {
		cond, calls := counter(1)
		require.True(t, Eventually(cond, fast).Evaluate(naica.New()))
		require.Equal(t, 1, *calls)
	})

	t.Run("holds after a few polls", func(t *testing.T) {
		cond, calls := counter(3)
		require.True(t, Eventually(cond, fast).Evaluate(naica.New()))
		require.Equal(t, 3, *calls)
	})

	t.Run("times out", func(t *testing.T) {
		cond := naica.ConditionFunc(func(*naica.RunContext) bool { return false })
		cfg := WaitConfig{Timeout: 20 * time.Millisecond, Interval: time.Millisecond}
		require.False(t, Eventually(cond, cfg).Evaluate(naica.New()))
	})

	t.Run("stops when the context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		cond := naica.ConditionFunc(func(*naica.RunContext) bool { return false })
		rc := naica.New(naica.WithContext(ctx))
		require.False(t, Eventually(cond, WaitConfig{Timeout: time.Minute}).Evaluate(rc))
	})
}

func TestConsistently(t *testing.T) {
	cfg := WaitConfig{Timeout: 10 * time.Millisecond, Interval: time.Millisecond}

	t.Run("holds when the condition always holds", func(t *testing.T) {
		cond, calls := counter(1)
		require.True(t, Consistently(cond, cfg).Evaluate(naica.New()))
		require.Greater(t, *calls, 1)
	})

	t.Run("fails on the first miss", func(t *testing.T) {
		calls := 0
		cond := naica.ConditionFunc(func(*naica.RunContext) bool {
			calls++
			return calls < 3
		})
		long := WaitConfig{Timeout: time.Minute, Interval: time.Millisecond}
		require.False(t, Consistently(cond, long).Evaluate(naica.New()))
		require.Equal(t, 3, calls)
	})
}

func TestWaitConfigDefaults(t *testing.T) {
	cfg := WaitConfig{}.withDefaults()
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultInterval, cfg.Interval)
}
