package panel

import "time"

// DefaultMultiClickTimeout is the longest gap between presses that still
// counts as a double or triple click.
const DefaultMultiClickTimeout = 500 * time.Millisecond

// clickSlop is how far in pixels the pointer may move between presses of a
// multi-click.
const clickSlop = 4

// clickDetector counts consecutive presses at the same spot. The count
// cycles 1, 2, 3, 1, ...
type clickDetector struct {
	timeout time.Duration
	last    time.Time
	x, y    float32
	count   int
}

func (d *clickDetector) press(now time.Time, x, y float32) int {
	near := abs(x-d.x) <= clickSlop && abs(y-d.y) <= clickSlop
	if d.count > 0 && near && now.Sub(d.last) <= d.timeout && d.count < 3 {
		d.count++
	} else {
		d.count = 1
	}
	d.last, d.x, d.y = now, x, y
	return d.count
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
