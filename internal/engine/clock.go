package engine

import "math/rand"

// virtualClock is the run's monotonic virtual clock for operation ordering.
//
// Every emitted operation is stamped from Next(), which advances by one tick
// plus optional seeded jitter. Timestamps are therefore strictly increasing
// across the run; wall-clock time is never consulted.
//
// The clock belongs to a single run and is only touched from the driver's
// single-writer loop, so no synchronization is needed.
type virtualClock struct {
	now    int64
	jitter int
	rng    *rand.Rand
}

// newVirtualClock creates a clock starting at 0.
// jitter widens each step by a random 0..jitter extra ticks; 0 keeps the
// fixed one-tick step, which is what deterministic golden tests rely on.
func newVirtualClock(jitter int, rng *rand.Rand) *virtualClock {
	return &virtualClock{jitter: jitter, rng: rng}
}

// Next advances the clock and returns the new tick.
func (c *virtualClock) Next() int64 {
	step := int64(1)
	if c.jitter > 0 {
		step += int64(c.rng.Intn(c.jitter + 1))
	}
	c.now += step
	return c.now
}

// Current returns the last issued tick without advancing.
func (c *virtualClock) Current() int64 {
	return c.now
}
