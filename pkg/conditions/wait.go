package conditions

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/denizgursoy/naica/pkg/naica"
)

const (
	DefaultTimeout  = 30 * time.Second
	DefaultInterval = 100 * time.Millisecond
)

// WaitConfig configures the polling conditions. Zero values fall back to
// DefaultTimeout and DefaultInterval.
type WaitConfig struct {
	Timeout  time.Duration
	Interval time.Duration
}

func (c WaitConfig) withDefaults() WaitConfig {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	return c
}

// Eventually polls condition until it holds or the timeout expires. The
// first check happens immediately. Cancelling the run context's
// context.Context stops the polling with a false result.
func Eventually(condition naica.Condition, cfg WaitConfig) naica.Condition {
	cfg = cfg.withDefaults()

	return naica.ConditionFunc(func(rc *naica.RunContext) bool {
		err := wait.PollUntilContextTimeout(rc.Context(), cfg.Interval, cfg.Timeout, true, func(context.Context) (bool, error) {
			return condition.Evaluate(rc), nil
		})
		if err != nil {
			rc.Logger().Debug("Condition did not hold in time", "timeout", cfg.Timeout, "error", err)
			return false
		}
		return true
	})
}

// Consistently checks condition every interval for the whole timeout and
// holds only if the condition held every time.
func Consistently(condition naica.Condition, cfg WaitConfig) naica.Condition {
	cfg = cfg.withDefaults()

	return naica.ConditionFunc(func(rc *naica.RunContext) bool {
		ctx := rc.Context()
		deadline := time.Now().Add(cfg.Timeout)
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		for {
			if !condition.Evaluate(rc) {
				return false
			}
			if time.Now().After(deadline) {
				return true
			}
			select {
			case <-ctx.Done():
				return false
			case <-ticker.C:
			}
		}
	})
}
