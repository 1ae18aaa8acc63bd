package clockx

// Clock is the hand of a CLOCK (second-chance) sweep over a fixed number of slots.
// It only owns the cursor; per-slot state (ref bits, pins) belongs to the caller,
// which decides in Sweep whether the slot under the hand is the victim.
type Clock struct {
	hand int
	n    int
}

// New returns a clock over slots [0..capacity). The hand starts on the last
// slot so the first sweep examines slot 0 first.
func New(capacity int) *Clock {
	if capacity <= 0 {
		capacity = 1
	}
	return &Clock{
		hand: capacity - 1,
		n:    capacity,
	}
}

func (c *Clock) Capacity() int { return c.n }

// Hand returns the slot the hand currently points at.
func (c *Clock) Hand() int { return c.hand }

// Advance moves the hand one slot forward and returns the new position.
func (c *Clock) Advance() int {
	c.hand = (c.hand + 1) % c.n
	return c.hand
}

// Sweep advances the hand and calls pick for the slot under it, until pick
// reports a victim or 2*capacity slots were examined. Two full turns are
// needed because the first one may only be clearing ref bits.
//
// The hand is left on the victim, so the next Sweep starts after it.
func (c *Clock) Sweep(pick func(slot int) (victim bool, err error)) (slot int, ok bool, err error) {
	limit := 2 * c.n
	for steps := 0; steps < limit; steps++ {
		idx := c.Advance()
		victim, err := pick(idx)
		if err != nil {
			return idx, false, err
		}
		if victim {
			return idx, true, nil
		}
	}
	return -1, false, nil
}
