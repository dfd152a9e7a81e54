package browser

import (
	"context"
	"fmt"
	"time"
)

const (
	scrollByScript     = "(distance) => window.scrollBy(0, distance)"
	scrollHeightScript = "() => document.body ? document.body.scrollHeight : 0"
)

// evaluator is the slice of playwright.Page that scrolling needs
type evaluator interface {
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
}

type ScrollOptions struct {
	Step     int
	Interval time.Duration
	MaxSteps int
}

func (o ScrollOptions) withDefaults() ScrollOptions {
	if o.Step <= 0 {
		o.Step = 100
	}
	if o.Interval <= 0 {
		o.Interval = 100 * time.Millisecond
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = 300
	}
	return o
}

// AutoScroll scrolls down by Step until the scrolled distance reaches the
// document height. The height is re-read after each step so lazy content is
// picked up, and the loop never runs more than MaxSteps times.
// It returns the number of steps taken.
func AutoScroll(ctx context.Context, page evaluator, opts ScrollOptions) (int, error) {
	opts = opts.withDefaults()

	height, err := scrollHeight(page)
	if err != nil {
		return 0, err
	}

	scrolled := 0
	steps := 0
	for steps < opts.MaxSteps && scrolled < height {
		if _, err := page.Evaluate(scrollByScript, opts.Step); err != nil {
			return steps, fmt.Errorf("scroll: %w", err)
		}
		scrolled += opts.Step
		steps++

		timer := time.NewTimer(opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return steps, ctx.Err()
		case <-timer.C:
		}

		if h, err := scrollHeight(page); err == nil && h > height {
			height = h
		}
	}
	return steps, nil
}

func scrollHeight(page evaluator) (int, error) {
	v, err := page.Evaluate(scrollHeightScript)
	if err != nil {
		return 0, fmt.Errorf("read scroll height: %w", err)
	}
	switch h := v.(type) {
	case int:
		return h, nil
	case int64:
		return int(h), nil
	case float64:
		return int(h), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected scroll height type %T", v)
	}
}
